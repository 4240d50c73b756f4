package jobs

import (
	"context"
	"log/slog"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

type RelayHandler interface {
	Handle(ctx context.Context, cmd commands.PublishOutboxEventsCommand) (commands.PublishOutboxEventsResult, error)
}

// OutboxRelayJob periodically publishes committed domain events from the outbox.
type OutboxRelayJob struct {
	handler   RelayHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewOutboxRelayJob(handler RelayHandler, schedule string, batchSize int, logger *slog.Logger) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// RunOnce relays one batch.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewPublishOutboxEventsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay job failed", "error", err)
		return
	}

	metrics.OutboxPublished.Add(float64(result.Published))
	metrics.OutboxPublishErrors.Add(float64(result.Failed))
	if result.Failed > 0 {
		j.logger.WarnContext(ctx, "Outbox events returned to the queue",
			"published", result.Published,
			"failed", result.Failed)
	}
}

func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}
