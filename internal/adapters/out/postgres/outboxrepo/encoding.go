package outboxrepo

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"aqualink/internal/core/domain/model/kernel"
	"aqualink/internal/core/domain/model/order"
	"aqualink/internal/core/ports"
)

// orderStatusChangedPayload is the published body of order.StatusChanged.
type orderStatusChangedPayload struct {
	EventID         string    `json:"eventId"`
	OrderID         string    `json:"orderId"`
	ActorID         string    `json:"actorId"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	AcceptedQuoteID *string   `json:"acceptedQuoteId,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func encodeEvent(ev kernel.DomainEvent) ([]byte, error) {
	switch e := ev.(type) {
	case order.StatusChanged:
		payload := orderStatusChangedPayload{
			EventID:    e.EventID().String(),
			OrderID:    e.AggregateID().String(),
			ActorID:    e.ActorID().String(),
			From:       e.From().String(),
			To:         e.To().String(),
			OccurredAt: e.OccurredAt().UTC(),
		}
		if id := e.AcceptedQuoteID(); id != nil {
			s := id.String()
			payload.AcceptedQuoteID = &s
		}
		return json.Marshal(payload)
	default:
		return nil, fmt.Errorf("no outbox encoding for event %s (%T)", ev.EventName(), ev)
	}
}

func sortByOccurredAt(messages []ports.OutboxMessage) {
	slices.SortStableFunc(messages, func(a, b ports.OutboxMessage) int {
		return a.OccurredAt.Compare(b.OccurredAt)
	})
}
