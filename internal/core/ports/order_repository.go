// Package ports defines the contracts between the application core and its adapters:
// repositories, the unit of work, the event publisher and external collaborators.
package ports

import (
	"context"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order together with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status, accepted quote reference and update time.
	// Items and address are immutable and never rewritten.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items. Returns errs.ErrObjectNotFound if absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get holding a row lock on the order until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
