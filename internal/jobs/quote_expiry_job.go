package jobs

import (
	"context"
	"log/slog"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

type ExpiryHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireStaleQuotesCommand) (commands.ExpireStaleQuotesResult, error)
}

// QuoteExpiryJob periodically moves overdue quote requests and quotes to EXPIRED.
// Reads never depend on it: they compare deadlines with the current time.
type QuoteExpiryJob struct {
	handler   ExpiryHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewQuoteExpiryJob creates the sweep. schedule is a six-field cron expression.
func NewQuoteExpiryJob(handler ExpiryHandler, schedule string, batchSize int, logger *slog.Logger) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "quote_expiry_job"),
	}
}

// Start schedules the sweep.
func (j *QuoteExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Quote expiry job started", "schedule", j.schedule)
	return nil
}

// RunOnce performs one sweep and logs its outcome.
func (j *QuoteExpiryJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewExpireStaleQuotesCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Quote expiry job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	metrics.ExpiredRequests.Add(float64(result.Requests))
	metrics.ExpiredQuotes.Add(float64(result.Quotes))
	if err != nil {
		j.logger.ErrorContext(ctx, "Quote expiry job failed", "error", err)
		return
	}

	if result.Requests > 0 || result.Quotes > 0 {
		j.logger.InfoContext(ctx, "Expired overdue bids",
			"requests", result.Requests,
			"quotes", result.Quotes)
	}
}

// Stop stops scheduling and waits for a running sweep to finish.
func (j *QuoteExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Quote expiry job stopped")
}
