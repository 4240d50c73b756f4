package ports

import (
	"context"
	"time"

	"aqualink/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event serialized into the outbox table in the same
// transaction that produced it.
type OutboxMessage struct {
	ID          kernel.UUID
	EventName   string
	AggregateID kernel.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository hands committed outbox messages to the relay.
type OutboxRepository interface {
	// FetchBatch claims up to limit unpublished messages, oldest first. Claimed rows
	// are invisible to concurrent relays until marked or until the claim goes stale.
	FetchBatch(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkProcessed(ctx context.Context, ids []kernel.UUID) error
	// MarkFailed returns messages to the queue for the next relay run.
	MarkFailed(ctx context.Context, ids []kernel.UUID) error
}

// MessagePublisher ships one outbox message to the broker.
type MessagePublisher interface {
	Publish(ctx context.Context, msg OutboxMessage) error
}
