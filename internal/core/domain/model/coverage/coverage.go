// Package coverage holds a delivery provider's serviceable areas and availability.
package coverage

import (
	"errors"
	"fmt"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

// ErrCoverageIsNotConstructed is returned when a Coverage was not built by
// NewCoverage or RestoreCoverage.
var ErrCoverageIsNotConstructed = errors.New("Coverage must be created via NewCoverage constructor")

// Coverage is the per-provider registry entry: the set of (district, town) pairs the
// provider serves and whether it currently accepts work. A new entry covers nothing
// and is unavailable.
type Coverage struct {
	providerID kernel.UUID
	areas      map[kernel.Area]struct{}
	available  bool
	updatedAt  time.Time
	guard      guard.ConstructorGuard
}

func NewCoverage(providerID kernel.UUID, now time.Time) (*Coverage, error) {
	if err := providerID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("providerId", err)
	}
	return &Coverage{
		providerID: providerID,
		areas:      make(map[kernel.Area]struct{}),
		updatedAt:  now,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func RestoreCoverage(providerID kernel.UUID, areas []kernel.Area, available bool, updatedAt time.Time) (*Coverage, error) {
	c, err := NewCoverage(providerID, updatedAt)
	if err != nil {
		return nil, err
	}
	if err = c.setAreas(areas); err != nil {
		return nil, err
	}
	c.available = available
	return c, nil
}

func (c *Coverage) Validate() error {
	if c == nil {
		return ErrCoverageIsNotConstructed
	}
	return c.guard.Validate(ErrCoverageIsNotConstructed)
}

func (c *Coverage) ProviderID() kernel.UUID {
	return c.providerID
}

// Areas returns the covered pairs sorted by district, then town.
func (c *Coverage) Areas() []kernel.Area {
	areas := make([]kernel.Area, 0, len(c.areas))
	for a := range c.areas {
		areas = append(areas, a)
	}
	kernel.SortAreas(areas)
	return areas
}

func (c *Coverage) IsAvailable() bool {
	return c.available
}

func (c *Coverage) UpdatedAt() time.Time {
	return c.updatedAt
}

// Covers reports whether area is in the coverage set.
func (c *Coverage) Covers(area kernel.Area) bool {
	_, ok := c.areas[area]
	return ok
}

// AcceptsWorkIn reports whether the provider is available and covers area.
func (c *Coverage) AcceptsWorkIn(area kernel.Area) bool {
	return c.available && c.Covers(area)
}

// ReplaceAreas overwrites the whole coverage set. Pairs not in areas are dropped;
// callers resend the full desired set on every update. An empty slice clears it.
func (c *Coverage) ReplaceAreas(areas []kernel.Area, now time.Time) error {
	if err := c.setAreas(areas); err != nil {
		return err
	}
	c.updatedAt = now
	return nil
}

func (c *Coverage) SetAvailability(available bool, now time.Time) {
	c.available = available
	c.updatedAt = now
}

func (c *Coverage) setAreas(areas []kernel.Area) error {
	set := make(map[kernel.Area]struct{}, len(areas))
	var errList []error
	for idx, a := range areas {
		if err := a.Validate(); err != nil {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("areas[%d]", idx), err))
			continue
		}
		set[a] = struct{}{}
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}
	c.areas = set
	return nil
}
