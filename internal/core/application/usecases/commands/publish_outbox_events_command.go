package commands

import (
	"context"
	"errors"
	"log/slog"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/ports"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

var ErrPublishOutboxEventsCommandIsNotConstructed = errors.New(
	"PublishOutboxEventsCommand must be created via NewPublishOutboxEventsCommand constructor",
)

// PublishOutboxEventsCommand is one relay pass over the outbox.
type PublishOutboxEventsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewPublishOutboxEventsCommand(batchSize int) (PublishOutboxEventsCommand, error) {
	if batchSize <= 0 {
		return PublishOutboxEventsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, "unbounded")
	}

	return PublishOutboxEventsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PublishOutboxEventsCommand) Validate() error {
	return c.guard.Validate(ErrPublishOutboxEventsCommandIsNotConstructed)
}

func (c PublishOutboxEventsCommand) BatchSize() int {
	return c.batchSize
}

// PublishOutboxEventsResult counts messages handed to the broker in one pass.
type PublishOutboxEventsResult struct {
	Published int
	Failed    int
}

// PublishOutboxEventsCommandHandler claims one batch of committed events, publishes
// them oldest first and settles each claim. A failed message goes back to the queue
// for the next pass, so delivery is at least once.
type PublishOutboxEventsCommandHandler struct {
	outbox    ports.OutboxRepository
	publisher ports.MessagePublisher
	logger    *slog.Logger
}

func NewPublishOutboxEventsCommandHandler(
	outbox ports.OutboxRepository,
	publisher ports.MessagePublisher,
	logger *slog.Logger,
) PublishOutboxEventsCommandHandler {
	return PublishOutboxEventsCommandHandler{
		outbox:    outbox,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *PublishOutboxEventsCommandHandler) Handle(
	ctx context.Context,
	cmd PublishOutboxEventsCommand,
) (PublishOutboxEventsResult, error) {
	if err := cmd.Validate(); err != nil {
		return PublishOutboxEventsResult{}, err
	}

	messages, err := h.outbox.FetchBatch(ctx, cmd.BatchSize())
	if err != nil {
		return PublishOutboxEventsResult{}, err
	}

	published := make([]kernel.UUID, 0, len(messages))
	failed := make([]kernel.UUID, 0)
	blocked := make(map[kernel.UUID]struct{})
	for _, msg := range messages {
		// Later events of an aggregate wait behind its failed one.
		if _, ok := blocked[msg.AggregateID]; ok {
			failed = append(failed, msg.ID)
			continue
		}
		if pubErr := h.publisher.Publish(ctx, msg); pubErr != nil {
			h.logger.ErrorContext(ctx, "failed to publish outbox message",
				"message_id", msg.ID.String(),
				"event", msg.EventName,
				"error", pubErr)
			failed = append(failed, msg.ID)
			blocked[msg.AggregateID] = struct{}{}
			continue
		}
		published = append(published, msg.ID)
	}

	// Settle with a fresh context: a cancelled pass must not leave claims dangling
	// until they go stale.
	settleCtx := context.WithoutCancel(ctx)
	if err = h.outbox.MarkProcessed(settleCtx, published); err != nil {
		return PublishOutboxEventsResult{}, err
	}

	if err = h.outbox.MarkFailed(settleCtx, failed); err != nil {
		return PublishOutboxEventsResult{}, err
	}

	return PublishOutboxEventsResult{Published: len(published), Failed: len(failed)}, nil
}
