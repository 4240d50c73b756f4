package order_test

import (
	"testing"

	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want order.Status
	}{
		{"DELIVERY_PENDING", order.DeliveryPending},
		{"order_pending", order.OrderPending},
		{" SHIPPED ", order.Shipped},
		{"DELIVERED", order.Delivered},
		{"CANCELED", order.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := order.ParseStatus(tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("unknown values are rejected", func(t *testing.T) {
		for _, in := range []string{"", "UNKNOWN", "CANCELLED"} {
			_, err := order.ParseStatus(in)
			require.ErrorIs(t, err, errs.ErrValueIsInvalid, in)
		}
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.DeliveryPending.Validate())
	require.NoError(t, order.Canceled.Validate())
	require.ErrorIs(t, order.Unknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status(42).Validate(), errs.ErrValueIsInvalid)
	assert.Equal(t, "UNKNOWN", order.Status(42).String())
}

func TestStatus_TransitionTo(t *testing.T) {
	all := []order.Status{
		order.DeliveryPending, order.OrderPending, order.Shipped, order.Delivered, order.Canceled,
	}
	allowed := map[[2]order.Status]bool{
		{order.DeliveryPending, order.OrderPending}: true,
		{order.DeliveryPending, order.Canceled}:     true,
		{order.OrderPending, order.Shipped}:         true,
		{order.OrderPending, order.Canceled}:        true,
		{order.Shipped, order.Delivered}:            true,
	}

	for _, from := range all {
		for _, to := range all {
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				next, err := from.TransitionTo(to)

				if allowed[[2]order.Status{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, next)
					return
				}

				var transitionErr *errs.InvalidTransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, from.String(), transitionErr.From)
				assert.Equal(t, to.String(), transitionErr.To)
				assert.Equal(t, from, next)
			})
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Canceled.IsTerminal())
	assert.False(t, order.DeliveryPending.IsTerminal())
	assert.False(t, order.OrderPending.IsTerminal())
	assert.False(t, order.Shipped.IsTerminal())
}

func TestStatus_ValidateCanHaveAcceptedQuote(t *testing.T) {
	require.Error(t, order.DeliveryPending.ValidateCanHaveAcceptedQuote(true))
	require.NoError(t, order.DeliveryPending.ValidateCanHaveAcceptedQuote(false))
	require.NoError(t, order.OrderPending.ValidateCanHaveAcceptedQuote(true))
	require.NoError(t, order.OrderPending.ValidateCanHaveAcceptedQuote(false))
	require.NoError(t, order.Canceled.ValidateCanHaveAcceptedQuote(true))
}
