package order

import (
	"fmt"
	"strings"

	"aqualink/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// The zero value Unknown is never a valid persisted status; it catches
// uninitialized values coming from storage or the wire.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// DeliveryPending is the initial status. The order waits for a delivery quote
	// to be accepted or for the seller to confirm it directly.
	DeliveryPending

	// OrderPending means delivery is arranged and the seller has to prepare the goods.
	OrderPending

	// Shipped means the seller handed the goods over for delivery.
	Shipped

	// Delivered is terminal. The delivery provider confirmed the handover.
	Delivered

	// Canceled is terminal. The seller canceled the order before shipping.
	Canceled
)

var statusStrings = map[Status]string{
	Unknown:         "UNKNOWN",
	DeliveryPending: "DELIVERY_PENDING",
	OrderPending:    "ORDER_PENDING",
	Shipped:         "SHIPPED",
	Delivered:       "DELIVERED",
	Canceled:        "CANCELED",
}

// transitions lists every permitted (from, to) pair. Terminal states have no entry.
var transitions = map[Status][]Status{
	DeliveryPending: {OrderPending, Canceled},
	OrderPending:    {Shipped, Canceled},
	Shipped:         {Delivered},
}

// ParseStatus maps a wire value such as "ORDER_PENDING" to a Status.
// Matching ignores case and surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range statusStrings {
		if status != Unknown && str == want {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks that s is one of the defined statuses.
func (s Status) Validate() error {
	if _, ok := statusStrings[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status. It is safe on invalid values.
func (s Status) String() string {
	if str, ok := statusStrings[s]; ok {
		return str
	}
	return statusStrings[Unknown]
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Canceled
}

// CanTransitionTo reports whether the transition table permits s -> to.
func (s Status) CanTransitionTo(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status when s -> to is permitted and an
// *errs.InvalidTransitionError otherwise.
//
// Example:
//
//	next, err := order.Shipped.TransitionTo(order.OrderPending)
//	// err: invalid transition: SHIPPED -> ORDER_PENDING
func (s Status) TransitionTo(to Status) (Status, error) {
	if !s.CanTransitionTo(to) {
		return s, errs.NewInvalidTransitionError(s, to)
	}
	return to, nil
}

// ValidateCanHaveAcceptedQuote checks the consistency between status and the
// accepted quote reference. A DELIVERY_PENDING order never carries one; any later
// status may, because a seller can also confirm an order without a quote.
func (s Status) ValidateCanHaveAcceptedQuote(hasQuote bool) error {
	if hasQuote && s == DeliveryPending {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s order cannot have an accepted quote", s),
		)
	}
	return nil
}
