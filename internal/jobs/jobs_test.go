package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExpiryHandler struct{ mock.Mock }

func (m *MockExpiryHandler) Handle(ctx context.Context, cmd commands.ExpireStaleQuotesCommand) (commands.ExpireStaleQuotesResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ExpireStaleQuotesResult), args.Error(1)
}

type MockRelayHandler struct{ mock.Mock }

func (m *MockRelayHandler) Handle(ctx context.Context, cmd commands.PublishOutboxEventsCommand) (commands.PublishOutboxEventsResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.PublishOutboxEventsResult), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestQuoteExpiryJob_RunOnce_PassesBatchSize(t *testing.T) {
	handler := new(MockExpiryHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ExpireStaleQuotesCommand) bool {
		return cmd.BatchSize() == 250
	})).Return(commands.ExpireStaleQuotesResult{Requests: 2, Quotes: 7}, nil).Once()

	job := jobs.NewQuoteExpiryJob(handler, "0 * * * * *", 250, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertExpectations(t)
}

func TestQuoteExpiryJob_RunOnce_HandlerErrorIsLogged(t *testing.T) {
	handler := new(MockExpiryHandler)
	handler.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ExpireStaleQuotesResult{}, errors.New("db down")).Once()

	job := jobs.NewQuoteExpiryJob(handler, "0 * * * * *", 10, discardLogger())
	assert.NotPanics(t, func() { job.RunOnce(context.Background()) })
	handler.AssertExpectations(t)
}

func TestQuoteExpiryJob_RunOnce_InvalidBatchSizeSkipsHandler(t *testing.T) {
	handler := new(MockExpiryHandler)

	job := jobs.NewQuoteExpiryJob(handler, "0 * * * * *", 0, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestOutboxRelayJob_RunOnce(t *testing.T) {
	handler := new(MockRelayHandler)
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PublishOutboxEventsCommand) bool {
		return cmd.BatchSize() == 100
	})).Return(commands.PublishOutboxEventsResult{Published: 3, Failed: 1}, nil).Once()

	job := jobs.NewOutboxRelayJob(handler, "*/5 * * * * *", 100, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertExpectations(t)
}

func TestJobManager_StartAll_InvalidScheduleFails(t *testing.T) {
	manager := jobs.NewJobManager(new(MockExpiryHandler), new(MockRelayHandler), jobs.Schedules{
		ExpirySchedule:  "0 * * * * *",
		ExpiryBatchSize: 10,
		RelaySchedule:   "not a schedule",
		RelayBatchSize:  10,
	}, discardLogger())

	err := manager.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outbox relay job")
}

func TestJobManager_StartAndStop(t *testing.T) {
	manager := jobs.NewJobManager(new(MockExpiryHandler), new(MockRelayHandler), jobs.Schedules{
		ExpirySchedule:  "0 0 0 1 1 *",
		ExpiryBatchSize: 10,
		RelaySchedule:   "0 0 0 1 1 *",
		RelayBatchSize:  10,
	}, discardLogger())

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
