package commands

import (
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand is a seller moving an order they take part in.
// Target ORDER_PENDING confirms, SHIPPED marks it prepared for shipping and
// CANCELED cancels.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	sellerID kernel.UUID
	target   order.Status

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(orderID, sellerID kernel.UUID, target order.Status) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, orderID, "orderId"),
		setID(&cmd.sellerID, sellerID, "sellerId"),
		target.Validate(),
	); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	cmd.target = target
	return cmd, nil
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) SellerID() kernel.UUID {
	return c.sellerID
}

func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}
