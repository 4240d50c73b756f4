package commands

import (
	"context"
	"fmt"

	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/pkg/errs"
)

// CompleteDeliveryCommandHandler moves a SHIPPED order to DELIVERED on behalf of
// the provider whose quote was accepted for it.
type CompleteDeliveryCommandHandler struct {
	uowFactory BiddingUoWFactory
	clock      Clock
}

func NewCompleteDeliveryCommandHandler(uowFactory BiddingUoWFactory, clock Clock) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	acceptedID := o.AcceptedQuoteID()
	if acceptedID == nil {
		return nil, errs.NewUnauthorizedError(
			fmt.Sprintf("provider %s", cmd.ProviderID()), fmt.Sprintf("order %s", o.ID()))
	}

	accepted, err := uow.QuoteRepository().Get(ctx, *acceptedID)
	if err != nil {
		return nil, err
	}

	if err = o.MarkDelivered(cmd.ProviderID(), accepted, h.clock().UTC()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
