// Package order holds the Order aggregate and the fulfillment state machine it drives.
//
// The package includes:
//   - Order: the aggregate root holding the buyer, line items, destination and status
//   - Item: an immutable line item referencing a product and its owning seller
//   - Status: the fulfillment state machine with its transition table
//   - StatusChanged: the domain event recorded on every status change
//
// Status transitions:
//
//	DELIVERY_PENDING ──> ORDER_PENDING ──> SHIPPED ──> DELIVERED
//	       │                   │
//	       └──────> CANCELED <─┘
//
// DELIVERY_PENDING is the initial state. DELIVERED and CANCELED are terminal.
// Any other requested transition fails with errs.ErrInvalidTransition and leaves
// the order unchanged.
//
// Key business rules:
//   - An order has exactly one buyer and at least one line item
//   - The total is the sum of line subtotals and is computed, never supplied
//   - Sellers may only act on orders holding at least one of their items
//   - Delivery may only be confirmed by the provider holding the accepted quote
//   - An accepted quote reference, once set, is never cleared
package order
