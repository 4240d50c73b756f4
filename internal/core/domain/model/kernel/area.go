package kernel

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

// ErrAreaIsNotConstructed is returned when an Area was not built by NewArea.
var ErrAreaIsNotConstructed = errs.NewValueIsRequiredError("area must be created via NewArea")

// Area is a serviceable (district, town) pair. It is comparable and can be used as
// a map key; matching a destination against a coverage set is plain set membership.
type Area struct { //nolint:recvcheck //using for validation
	district string
	town     string
	guard    guard.ConstructorGuard
}

// NewArea trims both parts and rejects empty values.
func NewArea(district, town string) (Area, error) {
	a := Area{guard: guard.NewConstructorGuard()}
	if err := errors.Join(a.setDistrict(district), a.setTown(town)); err != nil {
		return Area{}, err
	}
	return a, nil
}

func (a Area) District() string {
	return a.district
}

func (a Area) Town() string {
	return a.town
}

func (a Area) Validate() error {
	return a.guard.Validate(ErrAreaIsNotConstructed)
}

func (a Area) String() string {
	return fmt.Sprintf("%s/%s", a.district, a.town)
}

func (a *Area) setDistrict(district string) error {
	district = strings.TrimSpace(district)
	if district == "" {
		return errs.NewValueIsRequiredError("district")
	}
	a.district = district
	return nil
}

func (a *Area) setTown(town string) error {
	town = strings.TrimSpace(town)
	if town == "" {
		return errs.NewValueIsRequiredError("town")
	}
	a.town = town
	return nil
}

// AreasFromDistrictMap converts the wire form {district: [towns]} into areas.
// Duplicates collapse; the result is sorted by district then town.
func AreasFromDistrictMap(m map[string][]string) ([]Area, error) {
	seen := make(map[Area]struct{})
	var errList []error
	for district, towns := range m {
		if len(towns) == 0 {
			errList = append(errList, errs.NewValueIsRequiredErrorWithCause(
				"towns", fmt.Errorf("district %q has no towns", district)))
			continue
		}
		for _, town := range towns {
			area, err := NewArea(district, town)
			if err != nil {
				errList = append(errList, err)
				continue
			}
			seen[area] = struct{}{}
		}
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	areas := make([]Area, 0, len(seen))
	for area := range seen {
		areas = append(areas, area)
	}
	SortAreas(areas)
	return areas, nil
}

// AreasToDistrictMap is the inverse of AreasFromDistrictMap.
func AreasToDistrictMap(areas []Area) map[string][]string {
	m := make(map[string][]string)
	sorted := append([]Area(nil), areas...)
	SortAreas(sorted)
	for _, a := range sorted {
		m[a.district] = append(m[a.district], a.town)
	}
	return m
}

// SortAreas orders areas by district, then town.
func SortAreas(areas []Area) {
	slices.SortFunc(areas, func(x, y Area) int {
		if c := strings.Compare(x.district, y.district); c != 0 {
			return c
		}
		return strings.Compare(x.town, y.town)
	})
}
