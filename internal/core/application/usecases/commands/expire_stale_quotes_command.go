package commands

import (
	"context"
	"errors"
	"time"

	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

var ErrExpireStaleQuotesCommandIsNotConstructed = errors.New(
	"ExpireStaleQuotesCommand must be created via NewExpireStaleQuotesCommand constructor",
)

// ExpireStaleQuotesCommand is one run of the expiry sweep.
type ExpireStaleQuotesCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireStaleQuotesCommand(batchSize int) (ExpireStaleQuotesCommand, error) {
	if batchSize <= 0 {
		return ExpireStaleQuotesCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	return ExpireStaleQuotesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireStaleQuotesCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleQuotesCommandIsNotConstructed)
}

func (c ExpireStaleQuotesCommand) BatchSize() int {
	return c.batchSize
}

// ExpireStaleQuotesResult counts rows flipped to EXPIRED.
type ExpireStaleQuotesResult struct {
	Requests int64
	Quotes   int64
}

// ExpireStaleQuotesCommandHandler marks OPEN requests past their deadline and
// PENDING quotes past their validity as EXPIRED. Each batch is its own short
// transaction; rows locked by an in-flight acceptance are skipped, not awaited,
// and picked up by a later run if still overdue.
type ExpireStaleQuotesCommandHandler struct {
	uowFactory BiddingUoWFactory
	clock      Clock
}

func NewExpireStaleQuotesCommandHandler(uowFactory BiddingUoWFactory, clock Clock) ExpireStaleQuotesCommandHandler {
	return ExpireStaleQuotesCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *ExpireStaleQuotesCommandHandler) Handle(ctx context.Context, cmd ExpireStaleQuotesCommand) (ExpireStaleQuotesResult, error) {
	var total ExpireStaleQuotesResult
	if err := cmd.Validate(); err != nil {
		return total, err
	}

	now := h.clock().UTC()
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		batch, err := h.expireBatch(ctx, now, cmd.BatchSize())
		if err != nil {
			return total, err
		}

		total.Requests += batch.Requests
		total.Quotes += batch.Quotes
		if batch.Requests < int64(cmd.BatchSize()) && batch.Quotes < int64(cmd.BatchSize()) {
			return total, nil
		}
	}
}

func (h *ExpireStaleQuotesCommandHandler) expireBatch(
	ctx context.Context,
	now time.Time,
	limit int,
) (ExpireStaleQuotesResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ExpireStaleQuotesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	requests, err := uow.QuoteRequestRepository().ExpireOverdue(ctx, now, limit)
	if err != nil {
		return ExpireStaleQuotesResult{}, err
	}

	quotes, err := uow.QuoteRepository().ExpireOverdue(ctx, now, limit)
	if err != nil {
		return ExpireStaleQuotesResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ExpireStaleQuotesResult{}, err
	}

	return ExpireStaleQuotesResult{Requests: requests, Quotes: quotes}, nil
}
