package commands

import (
	"errors"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/pkg/guard"
)

var ErrSetAvailabilityCommandIsNotConstructed = errors.New(
	"SetAvailabilityCommand must be created via NewSetAvailabilityCommand constructor",
)

// SetAvailabilityCommand switches a provider on or off for new work.
type SetAvailabilityCommand struct { //nolint:recvcheck //using for validation
	providerID kernel.UUID
	available  bool

	guard guard.ConstructorGuard
}

func NewSetAvailabilityCommand(providerID kernel.UUID, available bool) (SetAvailabilityCommand, error) {
	cmd := SetAvailabilityCommand{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := setID(&cmd.providerID, providerID, "providerId"); err != nil {
		return SetAvailabilityCommand{}, err
	}

	return cmd, nil
}

func (c SetAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAvailabilityCommandIsNotConstructed)
}

func (c SetAvailabilityCommand) ProviderID() kernel.UUID {
	return c.providerID
}

func (c SetAvailabilityCommand) Available() bool {
	return c.available
}
