package kernel

import (
	"errors"
	"strings"

	"aqualink/internal/pkg/errs"
	"aqualink/internal/pkg/guard"
)

// ErrAddressIsNotConstructed is returned when an Address was not built by NewAddress.
var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError("address must be created via NewAddress")

// Address is an order's delivery destination. Place (house name or number) is
// optional; street, district and town are required.
type Address struct { //nolint:recvcheck //using for validation
	place  string
	street string
	area   Area
	guard  guard.ConstructorGuard
}

func NewAddress(place, street, district, town string) (Address, error) {
	addr := Address{
		place: strings.TrimSpace(place),
		guard: guard.NewConstructorGuard(),
	}

	area, areaErr := NewArea(district, town)
	if err := errors.Join(addr.setStreet(street), areaErr); err != nil {
		return Address{}, err
	}
	addr.area = area
	return addr, nil
}

func (a Address) Place() string {
	return a.place
}

func (a Address) Street() string {
	return a.street
}

func (a Address) District() string {
	return a.area.District()
}

func (a Address) Town() string {
	return a.area.Town()
}

// Area is the (district, town) pair used for coverage matching.
func (a Address) Area() Area {
	return a.area
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}
