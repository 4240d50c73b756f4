package commands

import (
	"errors"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"github.com/govalues/decimal"
)

var ErrCreateDeliveryRequestCommandIsNotConstructed = errors.New(
	"CreateDeliveryRequestCommand must be created via NewCreateDeliveryRequestCommand constructor",
)

// OrderLine is one checkout line: a catalog product and how many of it.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// CreateDeliveryRequestCommand places an order at checkout and opens the quote
// request providers bid on.
//
// Example:
//
//	addr, _ := kernel.NewAddress("", "Beach Road", "Gampaha", "Negombo")
//	cmd, err := NewCreateDeliveryRequestCommand(
//	    kernel.NewUUID(), kernel.NewUUID(), buyerID,
//	    []OrderLine{{ProductID: productID, Quantity: 1}},
//	    decimal.MustParse("1000"), addr, 0,
//	)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateDeliveryRequestCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	requestID kernel.UUID
	buyerID   kernel.UUID
	lines     []OrderLine
	subtotal  decimal.Decimal
	address   kernel.Address
	expiresIn time.Duration

	guard guard.ConstructorGuard
}

// NewCreateDeliveryRequestCommand validates the checkout payload. expiresIn of zero
// selects the configured request time to live; a negative value or one longer than
// MaxWindow is rejected.
func NewCreateDeliveryRequestCommand(
	orderID, requestID, buyerID kernel.UUID,
	lines []OrderLine,
	subtotal decimal.Decimal,
	address kernel.Address,
	expiresIn time.Duration,
) (CreateDeliveryRequestCommand, error) {
	cmd := CreateDeliveryRequestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, orderID, "orderId"),
		setID(&cmd.requestID, requestID, "requestId"),
		setID(&cmd.buyerID, buyerID, "buyerId"),
		cmd.setLines(lines),
		cmd.setSubtotal(subtotal),
		cmd.setAddress(address),
		cmd.setExpiresIn(expiresIn),
	); err != nil {
		return CreateDeliveryRequestCommand{}, err
	}

	return cmd, nil
}

func (c CreateDeliveryRequestCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryRequestCommandIsNotConstructed)
}

func (c CreateDeliveryRequestCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateDeliveryRequestCommand) RequestID() kernel.UUID {
	return c.requestID
}

func (c CreateDeliveryRequestCommand) BuyerID() kernel.UUID {
	return c.buyerID
}

func (c CreateDeliveryRequestCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

// Subtotal is the amount the client computed; checkout fails if catalog prices
// disagree with it.
func (c CreateDeliveryRequestCommand) Subtotal() decimal.Decimal {
	return c.subtotal
}

func (c CreateDeliveryRequestCommand) Address() kernel.Address {
	return c.address
}

// ExpiresIn is zero when the client expressed no preference.
func (c CreateDeliveryRequestCommand) ExpiresIn() time.Duration {
	return c.expiresIn
}

func (c *CreateDeliveryRequestCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var lineErrs []error
	for i, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			lineErrs = append(lineErrs, errs.NewValueIsRequiredErrorWithCause(fmt.Sprintf("items[%d].productId", i), err))
		}
		if line.Quantity <= 0 {
			lineErrs = append(lineErrs, errs.NewValueIsOutOfRangeError(fmt.Sprintf("items[%d].quantity", i), line.Quantity, 1, "unbounded"))
		}
	}
	if err := errors.Join(lineErrs...); err != nil {
		return err
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}

func (c *CreateDeliveryRequestCommand) setSubtotal(subtotal decimal.Decimal) error {
	if !subtotal.IsPos() {
		return errs.NewValueIsOutOfRangeError("subtotal", subtotal.String(), "0 (exclusive)", "unbounded")
	}

	c.subtotal = subtotal
	return nil
}

func (c *CreateDeliveryRequestCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *CreateDeliveryRequestCommand) setExpiresIn(expiresIn time.Duration) error {
	if expiresIn < 0 || expiresIn > MaxWindow {
		return errs.NewValueIsOutOfRangeError("expiresInHours", expiresIn.Hours(), 0, MaxWindow.Hours())
	}

	c.expiresIn = expiresIn
	return nil
}

// setID is shared by command constructors for their identifier fields.
func setID(dst *kernel.UUID, id kernel.UUID, name string) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}

	*dst = id
	return nil
}
