package commands

import (
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/guard"
)

var ErrAcceptQuoteCommandIsNotConstructed = errors.New(
	"AcceptQuoteCommand must be created via NewAcceptQuoteCommand constructor",
)

// AcceptQuoteCommand is a buyer choosing one bid for their order.
type AcceptQuoteCommand struct { //nolint:recvcheck //using for validation
	quoteID    kernel.UUID
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptQuoteCommand(quoteID, customerID kernel.UUID) (AcceptQuoteCommand, error) {
	cmd := AcceptQuoteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setID(&cmd.quoteID, quoteID, "quoteId"),
		setID(&cmd.customerID, customerID, "customerId"),
	); err != nil {
		return AcceptQuoteCommand{}, err
	}

	return cmd, nil
}

func (c AcceptQuoteCommand) Validate() error {
	return c.guard.Validate(ErrAcceptQuoteCommandIsNotConstructed)
}

func (c AcceptQuoteCommand) QuoteID() kernel.UUID {
	return c.quoteID
}

func (c AcceptQuoteCommand) CustomerID() kernel.UUID {
	return c.customerID
}
