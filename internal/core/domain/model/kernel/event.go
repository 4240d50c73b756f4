package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate. It is stored together with the
// state change that produced it and published from there.
type DomainEvent interface {
	EventID() UUID
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventSource is implemented by aggregates that record domain events.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
