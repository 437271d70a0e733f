package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	"github.com/sanjanarawald/CreditApprovalSystem/pkg/events"
	pkgkafka "github.com/sanjanarawald/CreditApprovalSystem/pkg/kafka"
)

// messageWriter is the part of pkgkafka.Producer the publisher needs.
type messageWriter interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// EventPublisher implements port.EventPublisher by writing events to Kafka.
// Events are keyed by aggregate ID so that a customer's events stay ordered.
type EventPublisher struct {
	producer messageWriter
	topic    string
	logger   *slog.Logger
}

// NewEventPublisher creates a publisher targeting the given producer and topic.
func NewEventPublisher(producer messageWriter, topic string, logger *slog.Logger) *EventPublisher {
	return &EventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish serialises and sends domain events to Kafka.
func (p *EventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	messages := make([]pkgkafka.Message, 0, len(evts))
	for _, evt := range evts {
		env, err := events.NewEnvelope(evt)
		if err != nil {
			return err
		}

		p.logger.DebugContext(ctx, "publishing domain event",
			"event_type", env.EventType,
			"aggregate_id", env.AggregateID,
			"topic", p.topic,
			"payload_size", len(env.Payload),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(env.AggregateID),
			Value: env.Payload,
			Headers: map[string]string{
				"event_type":     env.EventType,
				"event_id":       env.ID,
				"aggregate_type": env.AggregateType,
			},
		})
	}

	if len(messages) == 0 {
		return nil
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}
	return nil
}

// LogPublisher stands in for Kafka when it is disabled and only logs events.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
		)
	}
	return nil
}
