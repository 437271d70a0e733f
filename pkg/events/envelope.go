package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Envelope is the broker-facing form of a domain event: routing metadata plus
// the JSON encoding of the event itself.
type Envelope struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// NewEnvelope serialises the event into an Envelope.
func NewEnvelope(event DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal event %s: %w", event.EventType(), err)
	}
	return Envelope{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}
