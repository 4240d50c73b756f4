package jobs

import (
	"fmt"
	"log/slog"
)

// Schedules configures the background jobs.
type Schedules struct {
	ExpirySchedule  string
	ExpiryBatchSize int
	RelaySchedule   string
	RelayBatchSize  int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	quoteExpiryJob *QuoteExpiryJob
	outboxRelayJob *OutboxRelayJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	expiryHandler ExpiryHandler,
	relayHandler RelayHandler,
	schedules Schedules,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		quoteExpiryJob: NewQuoteExpiryJob(expiryHandler, schedules.ExpirySchedule, schedules.ExpiryBatchSize, logger),
		outboxRelayJob: NewOutboxRelayJob(relayHandler, schedules.RelaySchedule, schedules.RelayBatchSize, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.quoteExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start quote expiry job: %w", err)
	}

	if err := jm.outboxRelayJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.quoteExpiryJob.Stop()
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxRelayJob.Stop()
	jm.quoteExpiryJob.Stop()
}
