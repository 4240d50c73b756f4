package commands

import (
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

// CompleteDeliveryCommand is the accepted provider confirming hand-over.
type CompleteDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	providerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(orderID, providerID kernel.UUID) (CompleteDeliveryCommand, error) {
	cmd := CompleteDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.orderID, orderID, "orderId"),
		setID(&cmd.providerID, providerID, "providerId"),
	); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return cmd, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CompleteDeliveryCommand) ProviderID() kernel.UUID {
	return c.providerID
}
