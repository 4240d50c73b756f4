package ports

import (
	"context"

	"aqualink/internal/core/domain/model/kernel"

	"github.com/govalues/decimal"
)

// Customer is the buyer contact shown to providers.
type Customer struct {
	ID    kernel.UUID
	Name  string
	Phone string
}

// CustomerDirectory resolves buyer contact details owned by the user service.
// Unknown ids are left out of the result rather than failing.
type CustomerDirectory interface {
	FindCustomers(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Customer, error)
}

// Product is the catalog view needed at checkout.
type Product struct {
	ID       kernel.UUID
	SellerID kernel.UUID
	Name     string
	Price    decimal.Decimal
}

// ProductCatalog resolves products owned by the catalog service. Unknown ids are
// left out of the result.
type ProductCatalog interface {
	FindProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Product, error)
}
