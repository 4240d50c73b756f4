// Package jobs provides scheduled background tasks for the marketplace.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. QuoteExpiryJob - moves quote requests past their deadline and quotes past
// their validity to EXPIRED, in batches
// 2. OutboxRelayJob - publishes order status events committed to the outbox
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(&expireHandler, &relayHandler, jobs.Schedules{
//		ExpirySchedule:  "0 * * * * *",
//		ExpiryBatchSize: 500,
//		RelaySchedule:   "*/5 * * * * *",
//		RelayBatchSize:  100,
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six-field cron expressions (seconds first). A run that is still
// going when the next one fires is skipped, so runs of one job never overlap.
//
// # Error Handling
//
// Failures are logged and retried on the next run. Failed starts stop any job
// already running.
package jobs
