// Package postgres provides the GORM-based Unit of Work and schema migration.
//
// A unit of work wraps one database transaction. Repositories obtained from it run
// inside that transaction and register every aggregate they add or update. On
// Commit, domain events recorded by tracked aggregates are written to the outbox in
// the same transaction, so an event exists if and only if its state change does.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	...
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance belongs to one goroutine; concurrent operations use
// separate instances from the factory.
package postgres

import (
	"context"

	"aqualink/internal/adapters/out/postgres/coveragerepo"
	"aqualink/internal/adapters/out/postgres/orderrepo"
	"aqualink/internal/adapters/out/postgres/outboxrepo"
	"aqualink/internal/adapters/out/postgres/quoterepo"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/ports"

	"gorm.io/gorm"
)

type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one *gorm.DB.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and the aggregates touched in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit writes pending domain events to the outbox and commits. If writing the
// events fails the transaction is rolled back and nothing is persisted.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	events := uow.pendingEvents()
	if err := outboxrepo.NewGormOutboxRepository(uow.tx).Append(ctx, events); err != nil {
		_ = uow.Rollback(ctx)
		return err
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	uow.clearEvents()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction. It returns gorm.ErrInvalidTransaction when
// none is open, which callers deferring it after Commit ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) QuoteRequestRepository() ports.QuoteRequestRepository {
	return quoterepo.NewGormRequestRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) QuoteRepository() ports.QuoteRepository {
	return quoterepo.NewGormQuoteRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CoverageRepository() ports.CoverageRepository {
	return coveragerepo.NewGormCoverageRepository(uow.conn(), uow)
}

// TrackAggregate registers an aggregate added or updated in this unit of work.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pendingEvents collects events of every tracked event source once, even when the
// same aggregate was tracked by several writes.
func (uow *GormUnitOfWork) pendingEvents() []kernel.DomainEvent {
	seen := make(map[kernel.EventSource]struct{})
	var events []kernel.DomainEvent
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(kernel.EventSource)
		if !ok {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}
		events = append(events, source.DomainEvents()...)
	}
	return events
}

func (uow *GormUnitOfWork) clearEvents() {
	for _, tracked := range uow.trackedAggregates {
		if source, ok := tracked.Aggregate.(kernel.EventSource); ok {
			source.ClearDomainEvents()
		}
	}
}
