package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjanarawald/CreditApprovalSystem/internal/domain/event"
	pkgkafka "github.com/sanjanarawald/CreditApprovalSystem/pkg/kafka"
)

type recordingWriter struct {
	topic    string
	messages []pkgkafka.Message
	err      error
}

func (w *recordingWriter) Publish(_ context.Context, topic string, messages ...pkgkafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.topic = topic
	w.messages = append(w.messages, messages...)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEventPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewEventPublisher(w, "credit.events", discard())

	evt := event.NewLoanCreated(7, 42, decimal.RequireFromString("200000"), decimal.RequireFromString("14"), 12,
		decimal.RequireFromString("17957.42"), 55)
	require.NoError(t, p.Publish(context.Background(), evt))

	assert.Equal(t, "credit.events", w.topic)
	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "42", string(msg.Key))
	assert.Equal(t, event.TypeLoanCreated, msg.Headers["event_type"])
	assert.Equal(t, evt.EventID(), msg.Headers["event_id"])

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, float64(7), body["loan_id"])
	assert.Equal(t, event.TypeLoanCreated, body["event_type"])
}

func TestEventPublisher_NoEvents(t *testing.T) {
	w := &recordingWriter{err: errors.New("must not be called")}
	p := NewEventPublisher(w, "credit.events", discard())

	assert.NoError(t, p.Publish(context.Background()))
}

func TestEventPublisher_WrapsProducerError(t *testing.T) {
	broker := errors.New("broker down")
	p := NewEventPublisher(&recordingWriter{err: broker}, "credit.events", discard())

	err := p.Publish(context.Background(), event.NewDebtRecomputed(3))
	assert.ErrorIs(t, err, broker)
	assert.ErrorContains(t, err, "credit.events")
}

func TestLogPublisher(t *testing.T) {
	p := NewLogPublisher(discard())
	assert.NoError(t, p.Publish(context.Background(), event.NewDebtRecomputed(1)))
}
