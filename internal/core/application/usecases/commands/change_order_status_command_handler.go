package commands

import (
	"context"
	"errors"

	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
)

// ChangeOrderStatusCommandHandler applies a seller transition. When the order
// leaves DELIVERY_PENDING this way, its quote request is closed and pending bids
// are rejected in the same transaction. Locks follow request, quotes, order.
type ChangeOrderStatusCommandHandler struct {
	uowFactory BiddingUoWFactory
	clock      Clock
}

func NewChangeOrderStatusCommandHandler(uowFactory BiddingUoWFactory, clock Clock) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (*order.Order, error) {
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

	requestRepo := uow.QuoteRequestRepository()
	quoteRepo := uow.QuoteRepository()

	var quotes []*quote.Quote
	req, err := requestRepo.GetByOrderIDForUpdate(ctx, cmd.OrderID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		req = nil
	case err != nil:
		return nil, err
	case req.Status() != quote.RequestClosed:
		if quotes, err = quoteRepo.GetAllByRequestForUpdate(ctx, req.ID()); err != nil {
			return nil, err
		}
	}

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := h.clock().UTC()
	wasPending := o.Status() == order.DeliveryPending
	if err = o.ChangeStatusBySeller(cmd.SellerID(), cmd.Target(), now); err != nil {
		return nil, err
	}

	if wasPending && req != nil && req.Status() != quote.RequestClosed {
		if err = quote.CloseBidding(req, quotes, now); err != nil {
			return nil, err
		}
		if err = quoteRepo.UpdateAll(ctx, quotes); err != nil {
			return nil, err
		}
		if err = requestRepo.Update(ctx, req); err != nil {
			return nil, err
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
