package outboxrepo

import (
	"context"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// claimTimeout is how long a claimed batch may stay in processing before another
// relay run takes it over.
const claimTimeout = 5 * time.Minute

// GormOutboxRepository writes events inside a unit of work and serves the relay
// outside of one.
type GormOutboxRepository struct {
	db *gorm.DB
}

func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Append serializes events into outbox rows using the repository's connection,
// which is the open transaction when called from a unit of work.
func (r *GormOutboxRepository) Append(ctx context.Context, events []kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	now := time.Now().UTC()
	dtos := make([]MessageDTO, 0, len(events))
	for _, ev := range events {
		payload, err := encodeEvent(ev)
		if err != nil {
			return err
		}
		dtos = append(dtos, MessageDTO{
			ID:          ev.EventID().Bytes(),
			EventName:   ev.EventName(),
			AggregateID: ev.AggregateID().Bytes(),
			Payload:     payload,
			Status:      statusNew,
			OccurredAt:  ev.OccurredAt(),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// FetchBatch claims new messages and stale claims in one statement.
func (r *GormOutboxRepository) FetchBatch(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	const sql = `
		WITH claimed AS (
			SELECT id
			FROM outbox
			WHERE status = ? OR (status = ? AND updated_at < ?)
			ORDER BY created_at
			LIMIT ?
			FOR UPDATE SKIP LOCKED
		)
		UPDATE outbox
		SET status = ?, attempts = attempts + 1, updated_at = ?
		WHERE id IN (SELECT id FROM claimed)
		RETURNING id, event_name, aggregate_id, payload, status, attempts, occurred_at, created_at, updated_at`

	now := time.Now().UTC()
	var dtos []MessageDTO
	err := r.db.WithContext(ctx).
		Raw(sql, statusNew, statusProcessing, now.Add(-claimTimeout), limit, statusProcessing, now).
		Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	messages := make([]ports.OutboxMessage, 0, len(dtos))
	for _, dto := range dtos {
		id, idErr := kernel.UUIDFromGoogle(dto.ID)
		if idErr != nil {
			return nil, idErr
		}
		aggregateID, idErr := kernel.UUIDFromGoogle(dto.AggregateID)
		if idErr != nil {
			return nil, idErr
		}
		messages = append(messages, ports.OutboxMessage{
			ID:          id,
			EventName:   dto.EventName,
			AggregateID: aggregateID,
			Payload:     dto.Payload,
			OccurredAt:  dto.OccurredAt,
		})
	}

	// RETURNING order is unspecified.
	sortByOccurredAt(messages)
	return messages, nil
}

func (r *GormOutboxRepository) MarkProcessed(ctx context.Context, ids []kernel.UUID) error {
	return r.setStatus(ctx, ids, statusProcessed)
}

func (r *GormOutboxRepository) MarkFailed(ctx context.Context, ids []kernel.UUID) error {
	return r.setStatus(ctx, ids, statusNew)
}

func (r *GormOutboxRepository) setStatus(ctx context.Context, ids []kernel.UUID, status string) error {
	if len(ids) == 0 {
		return nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	return r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id IN ?", raw).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}
