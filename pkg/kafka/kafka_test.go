package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func headerValue(headers []kafka.Header, key string) string {
	return NewHeaderCarrier(&headers).Get(key)
}

// ============================================================================
// Event
// ============================================================================

func TestNewEvent(t *testing.T) {
	type submitted struct {
		OrderID string `json:"order_id"`
		Total   int64  `json:"total"`
	}

	event, err := NewEvent("order.submitted", "sess-1", "session", "cafe-ordering", submitted{"ord-1", 1188})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, "session", event.AggregateType)

	var got submitted
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, submitted{"ord-1", 1188}, got)

	_, err = NewEvent("x", "a", "b", "c", make(chan int))
	assert.Error(t, err)
}

func TestEvent_Envelope(t *testing.T) {
	event, err := NewEvent("cart.cleared", "sess-2", "session", "cafe-ordering", map[string]int{"items": 3})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1").WithMetadata("order_id", "ord-9")

	raw, err := event.Marshal()
	require.NoError(t, err)
	decoded, err := UnmarshalEvent(raw)
	require.NoError(t, err)

	assert.Equal(t, event.EventID, decoded.EventID)
	assert.Equal(t, "corr-1", decoded.CorrelationID)
	assert.Equal(t, "ord-9", decoded.Metadata["order_id"])

	_, err = UnmarshalEvent([]byte("{"))
	assert.Error(t, err)
}

// ============================================================================
// Producer
// ============================================================================

func TestProducer_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, []string{"localhost:9092"}, testLogger())

	event, err := NewEvent("order.submitted", "sess-1", "session", "cafe-ordering", map[string]string{"order_id": "o1"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-5")

	require.NoError(t, p.Publish(context.Background(), Topic("cafe", "order", "submitted"), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "cafe.order.submitted", msg.Topic)
	assert.Equal(t, "sess-1", string(msg.Key))
	assert.Equal(t, "order.submitted", headerValue(msg.Headers, "event_type"))
	assert.Equal(t, "cafe-ordering", headerValue(msg.Headers, "source"))
	assert.Equal(t, "corr-5", headerValue(msg.Headers, "correlation_id"))

	decoded, err := UnmarshalEvent(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, decoded.EventID)
}

func TestProducer_PublishInjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	w := &recordingWriter{}
	p := newProducer(w, nil, testLogger())
	event, _ := NewEvent("order.submitted", "sess-1", "session", "cafe-ordering", nil)
	require.NoError(t, p.Publish(ctx, "cafe.order.submitted", event))

	assert.Contains(t, headerValue(w.msgs[0].Headers, "traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_PublishError(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker down")}
	p := newProducer(w, nil, testLogger())
	event, _ := NewEvent("order.submitted", "sess-1", "session", "cafe-ordering", nil)

	err := p.Publish(context.Background(), "cafe.order.submitted", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cafe.order.submitted")
	assert.ErrorIs(t, err, w.err)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	assert.EqualError(t, PingBrokers(context.Background(), nil), "kafka: no brokers configured")
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, Discard.Publish(context.Background(), "t", &Event{}))
	assert.NoError(t, Discard.Close())
}

// ============================================================================
// HeaderCarrier
// ============================================================================

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "existing", Value: []byte("v1")}}
	c := NewHeaderCarrier(&headers)

	assert.Equal(t, "v1", c.Get("existing"))
	assert.Empty(t, c.Get("missing"))

	c.Set("existing", "v2")
	c.Set("new", "v3")
	assert.Equal(t, "v2", c.Get("existing"))
	assert.Equal(t, []string{"existing", "new"}, c.Keys())
	assert.Len(t, headers, 2)
}
