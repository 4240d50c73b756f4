package postgres

import (
	"context"
	"fmt"

	"aqualink/internal/adapters/out/postgres/coveragerepo"
	"aqualink/internal/adapters/out/postgres/directoryrepo"
	"aqualink/internal/adapters/out/postgres/orderrepo"
	"aqualink/internal/adapters/out/postgres/outboxrepo"
	"aqualink/internal/adapters/out/postgres/quoterepo"

	"gorm.io/gorm"
)

// Models lists every table this service owns or reads, in dependency order.
func Models() []any {
	return []any{
		&directoryrepo.CustomerDTO{},
		&directoryrepo.ProductDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&quoterepo.RequestDTO{},
		&quoterepo.QuoteDTO{},
		&coveragerepo.CoverageDTO{},
		&coveragerepo.CoverageAreaDTO{},
		&outboxrepo.MessageDTO{},
	}
}

// constraints are the parts of the schema GORM tags cannot express.
var constraints = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_destination ON orders (address_district, address_town)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_quotes_one_accepted ON quotes (request_id) WHERE status = 'ACCEPTED'`,
	`DO $$ BEGIN
		ALTER TABLE quote_requests ADD CONSTRAINT fk_quote_requests_order
			FOREIGN KEY (order_id) REFERENCES orders (id) ON DELETE CASCADE;
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE quotes ADD CONSTRAINT fk_quotes_request
			FOREIGN KEY (request_id) REFERENCES quote_requests (id) ON DELETE CASCADE;
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE orders ADD CONSTRAINT ck_orders_status
			CHECK (status IN ('DELIVERY_PENDING', 'ORDER_PENDING', 'SHIPPED', 'DELIVERED', 'CANCELED'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE quotes ADD CONSTRAINT ck_quotes_status
			CHECK (status IN ('PENDING', 'ACCEPTED', 'REJECTED', 'EXPIRED'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
	`DO $$ BEGIN
		ALTER TABLE quote_requests ADD CONSTRAINT ck_quote_requests_status
			CHECK (status IN ('OPEN', 'CLOSED', 'EXPIRED'));
	EXCEPTION WHEN duplicate_object THEN NULL; END $$`,
}

// Migrate creates or updates the schema. It is idempotent.
func Migrate(ctx context.Context, db *gorm.DB) error {
	db = db.WithContext(ctx)
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply constraint: %w", err)
		}
	}
	return nil
}
