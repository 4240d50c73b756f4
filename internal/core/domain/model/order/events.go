package order

import (
	"time"

	"aqualink/internal/core/domain/model/kernel"
)

// StatusChangedEventName is the name under which StatusChanged is published.
const StatusChangedEventName = "order.status_changed"

// StatusChanged records a single order status transition.
type StatusChanged struct {
	id              kernel.UUID
	orderID         kernel.UUID
	actorID         kernel.UUID
	from            Status
	to              Status
	acceptedQuoteID *kernel.UUID
	occurredAt      time.Time
}

func newStatusChanged(o *Order, actorID kernel.UUID, from Status, now time.Time) StatusChanged {
	return StatusChanged{
		id:              kernel.NewUUID(),
		orderID:         o.id,
		actorID:         actorID,
		from:            from,
		to:              o.status,
		acceptedQuoteID: o.AcceptedQuoteID(),
		occurredAt:      now,
	}
}

func (e StatusChanged) EventID() kernel.UUID {
	return e.id
}

func (e StatusChanged) EventName() string {
	return StatusChangedEventName
}

func (e StatusChanged) AggregateID() kernel.UUID {
	return e.orderID
}

func (e StatusChanged) OccurredAt() time.Time {
	return e.occurredAt
}

// ActorID is the buyer, seller or provider whose action caused the change.
func (e StatusChanged) ActorID() kernel.UUID {
	return e.actorID
}

func (e StatusChanged) From() Status {
	return e.from
}

func (e StatusChanged) To() Status {
	return e.to
}

// AcceptedQuoteID is the order's accepted quote at the time of the change, if any.
func (e StatusChanged) AcceptedQuoteID() *kernel.UUID {
	return e.acceptedQuoteID
}
