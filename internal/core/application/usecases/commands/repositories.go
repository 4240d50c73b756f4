// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"
	"time"

	"aqualink/internal/core/ports"
)

// Clock returns the current time. Handlers take it explicitly so that expiry
// decisions are reproducible in tests.
type Clock func() time.Time

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// QuoteRequestRepoFactory provides access to quote request repository within a transaction.
	QuoteRequestRepoFactory interface {
		QuoteRequestRepository() ports.QuoteRequestRepository
	}

	// QuoteRepoFactory provides access to quote repository within a transaction.
	QuoteRepoFactory interface {
		QuoteRepository() ports.QuoteRepository
	}

	// CoverageRepoFactory provides access to coverage repository within a transaction.
	CoverageRepoFactory interface {
		CoverageRepository() ports.CoverageRepository
	}

	// CoverageUoW manages transactions for coverage-only operations.
	CoverageUoW interface {
		TxManager
		CoverageRepoFactory
	}

	// CoverageUoWFactory creates new coverage unit of work instances.
	CoverageUoWFactory interface {
		Create() CoverageUoW
	}

	// BiddingUoW manages transactions across orders, quote requests and quotes.
	// Handlers that lock several of them do so in the order request, quotes, order.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   req, err := uow.QuoteRequestRepository().GetForUpdate(ctx, requestID)
	//   quotes, err := uow.QuoteRepository().GetAllByRequestForUpdate(ctx, requestID)
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, req.OrderID())
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	BiddingUoW interface {
		TxManager
		OrderRepoFactory
		QuoteRequestRepoFactory
		QuoteRepoFactory
	}

	// BiddingUoWFactory creates new bidding unit of work instances.
	BiddingUoWFactory interface {
		Create() BiddingUoW
	}
)
