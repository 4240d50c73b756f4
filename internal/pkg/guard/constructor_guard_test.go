package guard_test

import (
	"errors"
	"testing"

	"aqualink/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	errNotConstructed := errors.New("not constructed")

	t.Run("constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errNotConstructed))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(errNotConstructed)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("zero_value_guard_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.Equal(t, guard.ErrDefaultConstructorGuard, g.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type fee struct {
		cents int
		guard guard.ConstructorGuard
	}
	errFeeNotConstructed := errors.New("fee must be created via newFee")

	newFee := func(cents int) (fee, error) {
		if cents <= 0 {
			return fee{}, errors.New("fee must be positive")
		}
		return fee{cents: cents, guard: guard.NewConstructorGuard()}, nil
	}

	f, err := newFee(300)
	require.NoError(t, err)
	require.NoError(t, f.guard.Validate(errFeeNotConstructed))

	var zero fee
	require.ErrorIs(t, zero.guard.Validate(errFeeNotConstructed), errFeeNotConstructed)

	_, err = newFee(0)
	require.Error(t, err)
}
