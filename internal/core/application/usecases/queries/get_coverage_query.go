package queries

import (
	"context"
	"errors"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetCoverageQueryIsNotConstructed = errors.New(
	"GetCoverageQuery must be created via NewGetCoverageQuery constructor",
)

type GetCoverageQuery struct {
	providerID kernel.UUID
	guard      guard.ConstructorGuard
}

func NewGetCoverageQuery(providerID kernel.UUID) (GetCoverageQuery, error) {
	if err := providerID.Validate(); err != nil {
		return GetCoverageQuery{}, errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	return GetCoverageQuery{providerID: providerID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCoverageQuery) Validate() error {
	return q.guard.Validate(ErrGetCoverageQueryIsNotConstructed)
}

func (q GetCoverageQuery) ProviderID() kernel.UUID {
	return q.providerID
}

// GetCoverageQueryResponse lists the covered areas sorted by district then town.
type GetCoverageQueryResponse struct {
	ProviderID kernel.UUID
	Areas      []kernel.Area
	Available  bool
	UpdatedAt  time.Time
}

type GetCoverageQueryHandler struct {
	db *gorm.DB
}

func NewGetCoverageQueryHandler(db *gorm.DB) GetCoverageQueryHandler {
	return GetCoverageQueryHandler{db: db}
}

// Handle returns NotFound for a provider that never registered coverage.
func (h GetCoverageQueryHandler) Handle(ctx context.Context, query GetCoverageQuery) (GetCoverageQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCoverageQueryResponse{}, err
	}

	cov, err := loadCoverage(ctx, h.db, query.ProviderID())
	if err != nil {
		return GetCoverageQueryResponse{}, err
	}
	if cov == nil {
		return GetCoverageQueryResponse{}, errs.NewObjectNotFoundError("providerId", query.ProviderID())
	}

	areas := cov.Areas()
	kernel.SortAreas(areas)
	return GetCoverageQueryResponse{
		ProviderID: cov.ProviderID(),
		Areas:      areas,
		Available:  cov.IsAvailable(),
		UpdatedAt:  cov.UpdatedAt(),
	}, nil
}
