package order

import (
	"errors"
	"fmt"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

// ErrItemIsNotConstructed is returned when an Item was not built by NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line. It references the product and the seller owning it, and is
// immutable once the order is placed.
type Item struct {
	productID kernel.UUID
	sellerID  kernel.UUID
	quantity  int
	unitPrice decimal.Decimal
	guard     guard.ConstructorGuard
}

// NewItem validates and builds an order line. Quantity and unit price must be positive.
func NewItem(productID, sellerID kernel.UUID, quantity int, unitPrice decimal.Decimal) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setSellerID(sellerID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) SellerID() kernel.UUID {
	return i.sellerID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Subtotal is quantity times unit price.
func (i Item) Subtotal() (decimal.Decimal, error) {
	qty, err := decimal.New(int64(i.quantity), 0)
	if err != nil {
		return decimal.Zero, err
	}
	return i.unitPrice.Mul(qty)
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i *Item) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("productId", err)
	}
	i.productID = id
	return nil
}

func (i *Item) setSellerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}
	i.sellerID = id
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(price decimal.Decimal) error {
	if !price.IsPos() {
		return errs.NewValueIsInvalidErrorWithCause("unitPrice", fmt.Errorf("%s is not greater than 0", price))
	}
	i.unitPrice = price
	return nil
}
