package commands

import (
	"context"
	"time"

	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"
)

// SubmitQuoteCommandHandler records a provider's bid.
//
// The request row is read with a shared lock: an acceptance holding the exclusive
// lock finishes first, and the bid then sees the request CLOSED. One quote per
// provider is pre-checked here and enforced by a unique index in storage.
type SubmitQuoteCommandHandler struct {
	uowFactory      BiddingUoWFactory
	defaultValidity time.Duration
	clock           Clock
}

func NewSubmitQuoteCommandHandler(
	uowFactory BiddingUoWFactory,
	defaultValidity time.Duration,
	clock Clock,
) SubmitQuoteCommandHandler {
	return SubmitQuoteCommandHandler{
		uowFactory:      uowFactory,
		defaultValidity: defaultValidity,
		clock:           clock,
	}
}

func (h *SubmitQuoteCommandHandler) Handle(ctx context.Context, cmd SubmitQuoteCommand) (*quote.Quote, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock().UTC()
	if cmd.DeliveryDate().UTC().Before(now.Truncate(24 * time.Hour)) {
		return nil, errs.NewValueIsOutOfRangeError("deliveryDate",
			cmd.DeliveryDate().Format(time.DateOnly), now.Format(time.DateOnly), "unbounded")
	}

	validity := cmd.Validity()
	if validity == 0 {
		validity = h.defaultValidity
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	req, err := uow.QuoteRequestRepository().GetByOrderID(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = req.EnsureOpen(now); err != nil {
		return nil, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if o.Status() != order.DeliveryPending {
		return nil, errs.NewRequestClosedError(req.ID().String(), "order is "+o.Status().String())
	}

	quoteRepo := uow.QuoteRepository()
	exists, err := quoteRepo.ExistsForProvider(ctx, req.ID(), cmd.ProviderID())
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, errs.NewDuplicateQuoteError(req.ID().String(), cmd.ProviderID().String())
	}

	q, err := quote.NewQuote(cmd.QuoteID(), req.ID(), cmd.ProviderID(), cmd.Fee(),
		cmd.DeliveryDate(), cmd.Note(), validity, now)
	if err != nil {
		return nil, err
	}

	if err = quoteRepo.Add(ctx, q); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return q, nil
}
