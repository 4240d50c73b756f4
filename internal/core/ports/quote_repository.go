package ports

import (
	"context"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/quote"
)

// QuoteRequestRepository defines the persistence contract for quote requests.
type QuoteRequestRepository interface {
	Add(ctx context.Context, request *quote.Request) error

	// Update persists the request status.
	Update(ctx context.Context, request *quote.Request) error

	// GetByOrderID returns the order's request with a shared lock, so that a
	// concurrent acceptance, which takes the exclusive lock, serializes with it.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*quote.Request, error)

	// GetByOrderIDForUpdate returns the order's request holding an exclusive row lock.
	GetByOrderIDForUpdate(ctx context.Context, orderID kernel.UUID) (*quote.Request, error)

	// GetForUpdate returns a request by id holding an exclusive row lock.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*quote.Request, error)

	// ExpireOverdue flips OPEN requests whose deadline is not after now to EXPIRED,
	// skipping rows another transaction holds locked. Returns the number of rows changed.
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int64, error)
}

// QuoteRepository defines the persistence contract for quotes.
type QuoteRepository interface {
	// Add inserts a quote. A second quote by the same provider on the same request
	// fails with errs.ErrDuplicateQuote.
	Add(ctx context.Context, q *quote.Quote) error

	// UpdateAll persists status and acceptance time of the given quotes. A second
	// ACCEPTED quote on one request fails with errs.ErrQuoteUnavailable.
	UpdateAll(ctx context.Context, quotes []*quote.Quote) error

	// Get returns a quote by id without locking.
	Get(ctx context.Context, id kernel.UUID) (*quote.Quote, error)

	// ExistsForProvider reports whether the provider already quoted the request.
	ExistsForProvider(ctx context.Context, requestID, providerID kernel.UUID) (bool, error)

	// GetAllByRequestForUpdate locks and returns every quote of the request, in id order.
	GetAllByRequestForUpdate(ctx context.Context, requestID kernel.UUID) ([]*quote.Quote, error)

	// ExpireOverdue flips PENDING quotes whose validity is not after now to EXPIRED,
	// skipping locked rows. Returns the number of rows changed.
	ExpireOverdue(ctx context.Context, now time.Time, limit int) (int64, error)
}
