package quoterepo

import (
	"context"
	"errors"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/quote"
	"aqualink/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormRequestRepository implements ports.QuoteRequestRepository using GORM.
type GormRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormRequestRepository {
	return &GormRequestRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormRequestRepository) Add(ctx context.Context, request *quote.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	dto := requestFromDomain(request)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

func (r *GormRequestRepository) Update(ctx context.Context, request *quote.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&RequestDTO{}).
		Where("id = ?", request.ID().Bytes()).
		Update("status", request.Status().String())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("quote request", request.ID().String())
	}

	r.tracker.TrackAggregate(request.ID(), request)
	return nil
}

func (r *GormRequestRepository) GetByOrderID(ctx context.Context, orderID kernel.UUID) (*quote.Request, error) {
	return r.first(ctx, clause.LockingStrengthShare, "order_id = ?", orderID)
}

func (r *GormRequestRepository) GetByOrderIDForUpdate(ctx context.Context, orderID kernel.UUID) (*quote.Request, error) {
	return r.first(ctx, clause.LockingStrengthUpdate, "order_id = ?", orderID)
}

func (r *GormRequestRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*quote.Request, error) {
	return r.first(ctx, clause.LockingStrengthUpdate, "id = ?", id)
}

// ExpireOverdue claims overdue OPEN requests with SKIP LOCKED so that it never
// waits on an acceptance holding the row.
func (r *GormRequestRepository) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int64, error) {
	const sql = `
		UPDATE quote_requests
		SET status = ?
		WHERE id IN (
			SELECT id
			FROM quote_requests
			WHERE status = ? AND deadline <= ?
			ORDER BY deadline
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)`

	result := r.db.WithContext(ctx).Exec(sql, quote.RequestExpired.String(), quote.RequestOpen.String(), now, limit)
	return result.RowsAffected, result.Error
}

func (r *GormRequestRepository) first(
	ctx context.Context,
	strength string,
	where string,
	id kernel.UUID,
) (*quote.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where(where, id.Bytes()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("quote request", id.String())
		}
		return nil, err
	}

	return requestToDomain(dto)
}
