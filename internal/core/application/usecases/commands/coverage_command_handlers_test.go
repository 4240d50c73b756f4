package commands_test

import (
	"errors"
	"testing"
	"time"

	"aqualink/internal/core/application/usecases/commands"
	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCoverageUoW() *MockCoverageUoW {
	return &MockCoverageUoW{repo: new(MockCoverageRepository)}
}

func mustAreas(t *testing.T, m map[string][]string) []kernel.Area {
	t.Helper()
	areas, err := kernel.AreasFromDistrictMap(m)
	require.NoError(t, err)
	return areas
}

func TestSetCoverageCommandHandler_FirstWriteRegistersProvider(t *testing.T) {
	ctx := t.Context()
	provider := kernel.NewUUID()
	areas := mustAreas(t, map[string][]string{"Gampaha": {"Negombo", "Ja-Ela"}})

	uow := newCoverageUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.repo.On("GetForUpdate", mock.Anything, provider).
		Return(nil, errs.NewObjectNotFoundError("provider coverage", provider.String())).Once()
	uow.repo.On("Save", mock.Anything, mock.AnythingOfType("*coverage.Coverage")).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewSetCoverageCommand(provider, areas)
	require.NoError(t, err)

	h := commands.NewSetCoverageCommandHandler(MockCoverageUoWFactory{uow: uow}, fixedClock)
	c, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, areas, c.Areas())
	assert.False(t, c.IsAvailable())
	assert.Equal(t, now, c.UpdatedAt())
	uow.AssertExpectations(t)
	uow.repo.AssertExpectations(t)
}

func TestSetCoverageCommandHandler_ReplacesExistingAreas(t *testing.T) {
	ctx := t.Context()
	provider := kernel.NewUUID()
	existing, err := coverage.RestoreCoverage(provider,
		mustAreas(t, map[string][]string{"Colombo": {"Dehiwala"}}), true, now.Add(-time.Hour))
	require.NoError(t, err)
	replacement := mustAreas(t, map[string][]string{"Kandy": {"Peradeniya"}})

	uow := newCoverageUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.repo.On("GetForUpdate", mock.Anything, provider).Return(existing, nil).Once()
	uow.repo.On("Save", mock.Anything, existing).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewSetCoverageCommand(provider, replacement)
	require.NoError(t, err)

	h := commands.NewSetCoverageCommandHandler(MockCoverageUoWFactory{uow: uow}, fixedClock)
	c, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, replacement, c.Areas())
	assert.True(t, c.IsAvailable())
}

func TestSetAvailabilityCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	provider := kernel.NewUUID()

	uow := newCoverageUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.repo.On("GetForUpdate", mock.Anything, provider).
		Return(nil, errs.NewObjectNotFoundError("provider coverage", provider.String())).Once()
	uow.repo.On("Save", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewSetAvailabilityCommand(provider, true)
	require.NoError(t, err)

	h := commands.NewSetAvailabilityCommandHandler(MockCoverageUoWFactory{uow: uow}, fixedClock)
	c, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, c.IsAvailable())
	assert.Empty(t, c.Areas())
}

func TestSetAvailabilityCommandHandler_SaveError(t *testing.T) {
	ctx := t.Context()
	provider := kernel.NewUUID()
	existing, err := coverage.NewCoverage(provider, now)
	require.NoError(t, err)

	uow := newCoverageUoW()
	uow.On("Begin", mock.Anything).Return(nil).Once()
	uow.repo.On("GetForUpdate", mock.Anything, provider).Return(existing, nil).Once()
	uow.repo.On("Save", mock.Anything, existing).Return(errors.New("save error")).Once()
	uow.On("Rollback", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewSetAvailabilityCommand(provider, false)
	require.NoError(t, err)

	h := commands.NewSetAvailabilityCommandHandler(MockCoverageUoWFactory{uow: uow}, fixedClock)
	_, err = h.Handle(ctx, cmd)

	require.EqualError(t, err, "save error")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestNewSetCoverageCommand_InvalidProvider(t *testing.T) {
	_, err := commands.NewSetCoverageCommand(kernel.UUID{}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
