package coveragerepo

import (
	"context"
	"errors"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormCoverageRepository implements ports.CoverageRepository using GORM.
type GormCoverageRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCoverageRepository(db *gorm.DB, tracker aggregateTracker) *GormCoverageRepository {
	return &GormCoverageRepository{
		db:      db,
		tracker: tracker,
	}
}

// Save upserts the header, then replaces every area row of the provider.
func (r *GormCoverageRepository) Save(ctx context.Context, c *coverage.Coverage) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	db := r.db.WithContext(ctx)

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"available", "updated_at"}),
	}).Omit(clause.Associations).Create(&dto).Error
	if err != nil {
		return err
	}

	if err = db.Where("provider_id = ?", dto.ProviderID).Delete(&CoverageAreaDTO{}).Error; err != nil {
		return err
	}
	if len(dto.Areas) > 0 {
		if err = db.Create(&dto.Areas).Error; err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(c.ProviderID(), c)
	return nil
}

func (r *GormCoverageRepository) Get(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error) {
	return r.get(ctx, r.db, providerID)
}

func (r *GormCoverageRepository) GetForUpdate(ctx context.Context, providerID kernel.UUID) (*coverage.Coverage, error) {
	return r.get(ctx, r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}), providerID)
}

func (r *GormCoverageRepository) get(ctx context.Context, db *gorm.DB, providerID kernel.UUID) (*coverage.Coverage, error) {
	if err := providerID.Validate(); err != nil {
		return nil, err
	}

	var dto CoverageDTO
	err := db.WithContext(ctx).
		Preload("Areas").
		Where("provider_id = ?", providerID.Bytes()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("provider coverage", providerID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
