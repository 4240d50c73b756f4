package ports

import (
	"context"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
)

// CoverageRepository defines the persistence contract for provider coverage.
type CoverageRepository interface {
	// Save upserts the availability header and replaces the stored area set.
	Save(ctx context.Context, c *coverage.Coverage) error

	// Get returns the provider's coverage or errs.ErrObjectNotFound.
	Get(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error)

	// GetForUpdate is Get holding a row lock on the coverage header.
	GetForUpdate(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error)
}
