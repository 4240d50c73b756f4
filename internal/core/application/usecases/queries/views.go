// Package queries contains read operations of the CQRS architecture.
// Handlers read straight from the database with SQL and return flat response
// structs. They never lock rows and never write.
package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"gorm.io/gorm"
)

// Clock returns the current time. Reads compare deadlines and validity windows
// against it instead of trusting stored statuses.
type Clock func() time.Time

// OrderItemView is one line of an order. Mine is set when the line belongs to the
// seller the order was read for.
type OrderItemView struct {
	ProductID kernel.UUID
	SellerID  kernel.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	Mine      bool
}

// OrderView is the read model of an order.
type OrderView struct {
	ID              kernel.UUID
	BuyerID         kernel.UUID
	Status          order.Status
	Total           decimal.Decimal
	Address         kernel.Address
	AcceptedQuoteID *kernel.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItemView
}

// ItemCount is the number of units across all lines.
func (v OrderView) ItemCount() int {
	n := 0
	for _, item := range v.Items {
		n += item.Quantity
	}
	return n
}

// QuoteView is the read model of a quote. Status is the effective status at read
// time: a PENDING quote past its validity is reported EXPIRED.
type QuoteView struct {
	ID           kernel.UUID
	RequestID    kernel.UUID
	ProviderID   kernel.UUID
	Fee          decimal.Decimal
	DeliveryDate time.Time
	Note         string
	Status       quote.Status
	CreatedAt    time.Time
	ValidUntil   time.Time
	AcceptedAt   *time.Time
}

// OrderFilter narrows the order lists. Nil fields do not filter; From and To bound
// the creation time inclusively.
type OrderFilter struct {
	Status *order.Status
	From   *time.Time
	To     *time.Time
}

func (f OrderFilter) validate() error {
	if f.Status != nil {
		if err := f.Status.Validate(); err != nil {
			return err
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return errs.NewValueIsInvalidErrorWithCause("from",
			fmt.Errorf("%s is after to %s", f.From.Format(time.RFC3339), f.To.Format(time.RFC3339)))
	}
	return nil
}

// where appends the filter to conditions on the orders table aliased o.
func (f OrderFilter) where(conds []string, args []any) ([]string, []any) {
	if f.Status != nil {
		conds = append(conds, "o.status = ?")
		args = append(args, f.Status.String())
	}
	if f.From != nil {
		conds = append(conds, "o.created_at >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conds = append(conds, "o.created_at <= ?")
		args = append(args, f.To.UTC())
	}
	return conds, args
}

const orderColumns = `
	o.id,
	o.buyer_id,
	o.status,
	o.total,
	o.address_place,
	o.address_street,
	o.address_district,
	o.address_town,
	o.accepted_quote_id,
	o.created_at,
	o.updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// scanOrder reads orderColumns. Items are loaded separately by attachItems.
func scanOrder(row scanner) (OrderView, error) {
	var (
		id, buyerID                   uuid.UUID
		status, total                 string
		place, street, district, town string
		acceptedQuoteID               *uuid.UUID
		view                          OrderView
	)

	if err := row.Scan(
		&id, &buyerID, &status, &total,
		&place, &street, &district, &town,
		&acceptedQuoteID, &view.CreatedAt, &view.UpdatedAt,
	); err != nil {
		return OrderView{}, err
	}

	var err error
	if view.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return OrderView{}, err
	}
	if view.BuyerID, err = kernel.UUIDFromGoogle(buyerID); err != nil {
		return OrderView{}, err
	}
	if view.Status, err = order.ParseStatus(status); err != nil {
		return OrderView{}, err
	}
	if view.Total, err = decimal.Parse(total); err != nil {
		return OrderView{}, err
	}
	if view.Address, err = kernel.NewAddress(place, street, district, town); err != nil {
		return OrderView{}, err
	}
	if acceptedQuoteID != nil {
		qID, qErr := kernel.UUIDFromGoogle(*acceptedQuoteID)
		if qErr != nil {
			return OrderView{}, qErr
		}
		view.AcceptedQuoteID = &qID
	}
	view.CreatedAt = view.CreatedAt.UTC()
	view.UpdatedAt = view.UpdatedAt.UTC()
	return view, nil
}

// attachItems loads the lines of every order in one query. Lines sold by seller are
// flagged Mine; pass the zero UUID to flag none.
func attachItems(ctx context.Context, db *gorm.DB, orders []OrderView, seller kernel.UUID) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	index := make(map[kernel.UUID]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID.Bytes())
		index[o.ID] = i
		orders[i].Items = make([]OrderItemView, 0)
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			product_id,
			seller_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id IN ?
		ORDER BY order_id, line
	`, ids).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, productID, sellerID uuid.UUID
			quantity                     int
			unitPrice                    string
		)
		if err = rows.Scan(&orderID, &productID, &sellerID, &quantity, &unitPrice); err != nil {
			return err
		}

		item := OrderItemView{Quantity: quantity}
		oID, idErr := kernel.UUIDFromGoogle(orderID)
		if idErr != nil {
			return idErr
		}
		if item.ProductID, err = kernel.UUIDFromGoogle(productID); err != nil {
			return err
		}
		if item.SellerID, err = kernel.UUIDFromGoogle(sellerID); err != nil {
			return err
		}
		if item.UnitPrice, err = decimal.Parse(unitPrice); err != nil {
			return err
		}
		item.Mine = item.SellerID.IsEqual(seller)

		i, ok := index[oID]
		if !ok {
			continue
		}
		orders[i].Items = append(orders[i].Items, item)
	}

	return rows.Err()
}

// listOrders runs an order list query and attaches the items.
func listOrders(
	ctx context.Context,
	db *gorm.DB,
	from string,
	conds []string,
	args []any,
	seller kernel.UUID,
) ([]OrderView, error) {
	sqlText := "SELECT " + orderColumns + " FROM " + from +
		" WHERE " + strings.Join(conds, " AND ") +
		" ORDER BY o.created_at DESC, o.id"

	rows, err := db.WithContext(ctx).Raw(sqlText, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderView, 0)
	for rows.Next() {
		view, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		orders = append(orders, view)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	if err = attachItems(ctx, db, orders, seller); err != nil {
		return nil, err
	}
	return orders, nil
}

const quoteColumns = `
	q.id,
	q.request_id,
	q.provider_id,
	q.fee,
	q.delivery_date,
	q.note,
	q.status,
	q.created_at,
	q.valid_until,
	q.accepted_at`

// scanQuote restores the quote through the domain so the effective status follows
// the same rule the write side uses.
func scanQuote(row scanner, now time.Time) (QuoteView, error) {
	var (
		id, requestID, providerID uuid.UUID
		fee, note, status         string
		deliveryDate, createdAt   time.Time
		validUntil                time.Time
		acceptedAt                *time.Time
	)
	if err := row.Scan(&id, &requestID, &providerID, &fee, &deliveryDate, &note,
		&status, &createdAt, &validUntil, &acceptedAt); err != nil {
		return QuoteView{}, err
	}

	qID, err := kernel.UUIDFromGoogle(id)
	if err != nil {
		return QuoteView{}, err
	}
	rID, err := kernel.UUIDFromGoogle(requestID)
	if err != nil {
		return QuoteView{}, err
	}
	pID, err := kernel.UUIDFromGoogle(providerID)
	if err != nil {
		return QuoteView{}, err
	}
	amount, err := decimal.Parse(fee)
	if err != nil {
		return QuoteView{}, err
	}
	stored, err := quote.ParseStatus(status)
	if err != nil {
		return QuoteView{}, err
	}

	q, err := quote.RestoreQuote(qID, rID, pID, amount, deliveryDate, note, stored,
		createdAt.UTC(), validUntil.UTC(), acceptedAt)
	if err != nil {
		return QuoteView{}, err
	}

	return QuoteView{
		ID:           q.ID(),
		RequestID:    q.RequestID(),
		ProviderID:   q.ProviderID(),
		Fee:          q.Fee(),
		DeliveryDate: q.DeliveryDate(),
		Note:         q.Note(),
		Status:       q.EffectiveStatus(now),
		CreatedAt:    q.CreatedAt(),
		ValidUntil:   q.ValidUntil(),
		AcceptedAt:   q.AcceptedAt(),
	}, nil
}

// loadQuotes returns the quotes with the given ids keyed by id.
func loadQuotes(ctx context.Context, db *gorm.DB, ids []kernel.UUID, now time.Time) (map[kernel.UUID]QuoteView, error) {
	result := make(map[kernel.UUID]QuoteView, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	rows, err := db.WithContext(ctx).Raw(
		"SELECT "+quoteColumns+" FROM quotes q WHERE q.id IN ?", raw,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		view, scanErr := scanQuote(rows, now)
		if scanErr != nil {
			return nil, scanErr
		}
		result[view.ID] = view
	}
	return result, rows.Err()
}

// loadCoverage returns nil, nil when the provider never registered coverage.
func loadCoverage(ctx context.Context, db *gorm.DB, providerID kernel.UUID) (*coverage.Coverage, error) {
	var (
		available bool
		updatedAt time.Time
	)
	err := db.WithContext(ctx).Raw(`
		SELECT available, updated_at
		FROM provider_coverage
		WHERE provider_id = ?
	`, providerID.Bytes()).Row().Scan(&available, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // absence is not an error for readers
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT district, town
		FROM coverage_areas
		WHERE provider_id = ?
		ORDER BY district, town
	`, providerID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := make([]kernel.Area, 0)
	for rows.Next() {
		var district, town string
		if err = rows.Scan(&district, &town); err != nil {
			return nil, err
		}
		area, areaErr := kernel.NewArea(district, town)
		if areaErr != nil {
			return nil, areaErr
		}
		areas = append(areas, area)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return coverage.RestoreCoverage(providerID, areas, available, updatedAt.UTC())
}
