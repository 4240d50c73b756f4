package ports

import (
	"context"
)

// UnitOfWork represents a business transaction boundary. Repositories it hands out
// are bound to the transaction started by Begin. Domain events recorded by tracked
// aggregates are written to the outbox by Commit, inside the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	QuoteRequestRepository() QuoteRequestRepository
	QuoteRepository() QuoteRepository
	CoverageRepository() CoverageRepository
}

// UnitOfWorkFactory creates a fresh UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
