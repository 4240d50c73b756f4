package services_test

import (
	"testing"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/domain/model/quote"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func mustArea(t *testing.T, district, town string) kernel.Area {
	t.Helper()
	a, err := kernel.NewArea(district, town)
	require.NoError(t, err)
	return a
}

func mustOrder(t *testing.T, buyer kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), kernel.NewUUID(), 1, decimal.MustParse("1000"))
	require.NoError(t, err)
	addr, err := kernel.NewAddress("", "Beach Road", "Gampaha", "Negombo")
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), buyer, []order.Item{item}, addr, now)
	require.NoError(t, err)
	return o
}

func mustRequest(t *testing.T, o *order.Order) *quote.Request {
	t.Helper()
	r, err := quote.NewRequest(kernel.NewUUID(), o.ID(), now, now.Add(72*time.Hour))
	require.NoError(t, err)
	return r
}

func mustQuote(t *testing.T, r *quote.Request, fee string, validity time.Duration) *quote.Quote {
	t.Helper()
	q, err := quote.NewQuote(kernel.NewUUID(), r.ID(), kernel.NewUUID(),
		decimal.MustParse(fee), now.Add(24*time.Hour), "", validity, now)
	require.NoError(t, err)
	return q
}
