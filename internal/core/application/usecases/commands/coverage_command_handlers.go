package commands

import (
	"context"
	"errors"
	"time"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
)

// SetCoverageCommandHandler overwrites a provider's areas. The first write
// registers the provider, unavailable until it says otherwise.
type SetCoverageCommandHandler struct {
	uowFactory CoverageUoWFactory
	clock      Clock
}

func NewSetCoverageCommandHandler(uowFactory CoverageUoWFactory, clock Clock) SetCoverageCommandHandler {
	return SetCoverageCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *SetCoverageCommandHandler) Handle(ctx context.Context, cmd SetCoverageCommand) (*coverage.Coverage, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateCoverage(ctx, h.uowFactory, cmd.ProviderID(), h.clock().UTC(), func(c *coverage.Coverage, now time.Time) error {
		return c.ReplaceAreas(cmd.Areas(), now)
	})
}

// SetAvailabilityCommandHandler stores a provider's availability flag.
type SetAvailabilityCommandHandler struct {
	uowFactory CoverageUoWFactory
	clock      Clock
}

func NewSetAvailabilityCommandHandler(uowFactory CoverageUoWFactory, clock Clock) SetAvailabilityCommandHandler {
	return SetAvailabilityCommandHandler{
		uowFactory: uowFactory,
		clock:      clock,
	}
}

func (h *SetAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetAvailabilityCommand) (*coverage.Coverage, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateCoverage(ctx, h.uowFactory, cmd.ProviderID(), h.clock().UTC(), func(c *coverage.Coverage, now time.Time) error {
		c.SetAvailability(cmd.Available(), now)
		return nil
	})
}

func updateCoverage(
	ctx context.Context,
	uowFactory CoverageUoWFactory,
	providerID kernel.UUID,
	now time.Time,
	mutate func(c *coverage.Coverage, now time.Time) error,
) (*coverage.Coverage, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.CoverageRepository()
	c, err := repo.GetForUpdate(ctx, providerID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		c, err = coverage.NewCoverage(providerID, now)
	}
	if err != nil {
		return nil, err
	}

	if err = mutate(c, now); err != nil {
		return nil, err
	}

	if err = repo.Save(ctx, c); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return c, nil
}
