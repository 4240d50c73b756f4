package commands

import (
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/guard"
)

var ErrSetCoverageCommandIsNotConstructed = errors.New(
	"SetCoverageCommand must be created via NewSetCoverageCommand constructor",
)

// SetCoverageCommand replaces the whole set of areas a provider serves.
type SetCoverageCommand struct { //nolint:recvcheck //using for validation
	providerID kernel.UUID
	areas      []kernel.Area

	guard guard.ConstructorGuard
}

// NewSetCoverageCommand accepts an empty area list, which clears the coverage.
func NewSetCoverageCommand(providerID kernel.UUID, areas []kernel.Area) (SetCoverageCommand, error) {
	cmd := SetCoverageCommand{
		areas: append([]kernel.Area(nil), areas...),
		guard: guard.NewConstructorGuard(),
	}

	if err := setID(&cmd.providerID, providerID, "providerId"); err != nil {
		return SetCoverageCommand{}, err
	}

	return cmd, nil
}

func (c SetCoverageCommand) Validate() error {
	return c.guard.Validate(ErrSetCoverageCommandIsNotConstructed)
}

func (c SetCoverageCommand) ProviderID() kernel.UUID {
	return c.providerID
}

func (c SetCoverageCommand) Areas() []kernel.Area {
	return append([]kernel.Area(nil), c.areas...)
}
