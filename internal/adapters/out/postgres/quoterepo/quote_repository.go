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

// GormQuoteRepository implements ports.QuoteRepository using GORM.
type GormQuoteRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormQuoteRepository(db *gorm.DB, tracker aggregateTracker) *GormQuoteRepository {
	return &GormQuoteRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts q. The (request_id, provider_id) unique index turns a concurrent
// second submission into errs.ErrDuplicateQuote. The insert runs in a savepoint so
// the surrounding transaction stays usable after the violation.
func (r *GormQuoteRepository) Add(ctx context.Context, q *quote.Quote) error {
	if err := q.Validate(); err != nil {
		return err
	}

	dto := quoteFromDomain(q)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if err != nil {
		if isUniqueViolation(err, uniqueProviderQuoteIndex) {
			return errs.NewDuplicateQuoteErrorWithCause(q.RequestID().String(), q.ProviderID().String(), err)
		}
		return err
	}

	r.tracker.TrackAggregate(q.ID(), q)
	return nil
}

// UpdateAll writes status and acceptance time of quotes in the given order.
func (r *GormQuoteRepository) UpdateAll(ctx context.Context, quotes []*quote.Quote) error {
	for _, q := range quotes {
		if err := q.Validate(); err != nil {
			return err
		}

		dto := quoteFromDomain(q)
		result := r.db.WithContext(ctx).
			Model(&QuoteDTO{}).
			Where("id = ?", dto.ID).
			Updates(map[string]any{
				"status":      dto.Status,
				"accepted_at": dto.AcceptedAt,
			})
		if result.Error != nil {
			if isUniqueViolation(result.Error, uniqueAcceptedQuoteIndex) {
				return errs.NewQuoteUnavailableError(q.ID().String(), "another quote was already accepted")
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewObjectNotFoundError("quote", q.ID().String())
		}

		r.tracker.TrackAggregate(q.ID(), q)
	}
	return nil
}

func (r *GormQuoteRepository) Get(ctx context.Context, id kernel.UUID) (*quote.Quote, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto QuoteDTO
	if err := r.db.WithContext(ctx).Where("id = ?", id.Bytes()).Take(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("quote", id.String())
		}
		return nil, err
	}

	return quoteToDomain(dto)
}

func (r *GormQuoteRepository) ExistsForProvider(ctx context.Context, requestID, providerID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&QuoteDTO{}).
		Where("request_id = ? AND provider_id = ?", requestID.Bytes(), providerID.Bytes()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormQuoteRepository) GetAllByRequestForUpdate(ctx context.Context, requestID kernel.UUID) ([]*quote.Quote, error) {
	if err := requestID.Validate(); err != nil {
		return nil, err
	}

	var dtos []QuoteDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("request_id = ?", requestID.Bytes()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	quotes := make([]*quote.Quote, 0, len(dtos))
	for _, dto := range dtos {
		q, convErr := quoteToDomain(dto)
		if convErr != nil {
			return nil, convErr
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// ExpireOverdue claims overdue PENDING quotes with SKIP LOCKED so that it never
// waits on an acceptance holding the rows.
func (r *GormQuoteRepository) ExpireOverdue(ctx context.Context, now time.Time, limit int) (int64, error) {
	const sql = `
		UPDATE quotes
		SET status = ?
		WHERE id IN (
			SELECT id
			FROM quotes
			WHERE status = ? AND valid_until <= ?
			ORDER BY valid_until
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)`

	result := r.db.WithContext(ctx).Exec(sql, quote.Expired.String(), quote.Pending.String(), now, limit)
	return result.RowsAffected, result.Error
}
