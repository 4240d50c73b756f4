package commands

import (
	"context"

	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/core/domain/services"
)

// AcceptQuoteResult carries the accepted quote and the order it now drives.
type AcceptQuoteResult struct {
	Quote *quote.Quote
	Order *order.Order
}

// AcceptQuoteCommandHandler finalizes one bid as a single transaction.
//
// Rows are locked in the order request, quotes (by id), order. Two acceptances on
// the same request therefore serialize on the request row, and the loser re-reads
// the winner's ACCEPTED quote and fails with errs.ErrQuoteUnavailable. The partial
// unique index on accepted quotes backs this up in storage.
type AcceptQuoteCommandHandler struct {
	uowFactory BiddingUoWFactory
	acceptor   services.QuoteAcceptor
	clock      Clock
}

func NewAcceptQuoteCommandHandler(
	uowFactory BiddingUoWFactory,
	acceptor services.QuoteAcceptor,
	clock Clock,
) AcceptQuoteCommandHandler {
	return AcceptQuoteCommandHandler{
		uowFactory: uowFactory,
		acceptor:   acceptor,
		clock:      clock,
	}
}

func (h *AcceptQuoteCommandHandler) Handle(ctx context.Context, cmd AcceptQuoteCommand) (AcceptQuoteResult, error) {
	if err := cmd.Validate(); err != nil {
		return AcceptQuoteResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcceptQuoteResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	quoteRepo := uow.QuoteRepository()
	requestRepo := uow.QuoteRequestRepository()
	orderRepo := uow.OrderRepository()

	target, err := quoteRepo.Get(ctx, cmd.QuoteID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	req, err := requestRepo.GetForUpdate(ctx, target.RequestID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	quotes, err := quoteRepo.GetAllByRequestForUpdate(ctx, req.ID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	o, err := orderRepo.GetForUpdate(ctx, req.OrderID())
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	now := h.clock().UTC()
	accepted, err := h.acceptor.Accept(o, req, quotes, cmd.QuoteID(), cmd.CustomerID(), now)
	if err != nil {
		return AcceptQuoteResult{}, err
	}

	if err = quoteRepo.UpdateAll(ctx, quotes); err != nil {
		return AcceptQuoteResult{}, err
	}

	if err = requestRepo.Update(ctx, req); err != nil {
		return AcceptQuoteResult{}, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return AcceptQuoteResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AcceptQuoteResult{}, err
	}

	return AcceptQuoteResult{Quote: accepted, Order: o}, nil
}
