// Package coveragerepo persists provider coverage: an availability header per
// provider and its (district, town) rows.
package coveragerepo

import (
	"time"

	"aqualink/internal/core/domain/model/coverage"
	"aqualink/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type CoverageDTO struct {
	ProviderID uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Available  bool              `gorm:"not null;default:false"`
	UpdatedAt  time.Time         `gorm:"not null;autoUpdateTime:false"`
	Areas      []CoverageAreaDTO `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (CoverageDTO) TableName() string {
	return "provider_coverage"
}

// CoverageAreaDTO is one covered pair. The (district, town) index serves lookups
// of the providers covering a destination.
type CoverageAreaDTO struct {
	ProviderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	District   string    `gorm:"type:varchar(128);primaryKey;index:idx_coverage_areas_area,priority:1"`
	Town       string    `gorm:"type:varchar(128);primaryKey;index:idx_coverage_areas_area,priority:2"`
}

func (CoverageAreaDTO) TableName() string {
	return "coverage_areas"
}

func fromDomain(c *coverage.Coverage) CoverageDTO {
	providerID := c.ProviderID().Bytes()
	areas := make([]CoverageAreaDTO, 0, len(c.Areas()))
	for _, a := range c.Areas() {
		areas = append(areas, CoverageAreaDTO{
			ProviderID: providerID,
			District:   a.District(),
			Town:       a.Town(),
		})
	}

	return CoverageDTO{
		ProviderID: providerID,
		Available:  c.IsAvailable(),
		UpdatedAt:  c.UpdatedAt(),
		Areas:      areas,
	}
}

func toDomain(dto CoverageDTO) (*coverage.Coverage, error) {
	providerID, err := kernel.UUIDFromGoogle(dto.ProviderID)
	if err != nil {
		return nil, err
	}

	areas := make([]kernel.Area, 0, len(dto.Areas))
	for _, a := range dto.Areas {
		area, areaErr := kernel.NewArea(a.District, a.Town)
		if areaErr != nil {
			return nil, areaErr
		}
		areas = append(areas, area)
	}

	return coverage.RestoreCoverage(providerID, areas, dto.Available, dto.UpdatedAt)
}
