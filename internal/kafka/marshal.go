package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/segmentio/kafka-go"
)

const (
	HeaderEventType    = "x-event-type"
	HeaderEventVersion = "x-event-version"
)

// UnwrapPayload decodes an envelope payload into T.
func UnwrapPayload[T any](payload json.RawMessage) (T, error) {
	var t T
	if err := json.Unmarshal(payload, &t); err != nil {
		return t, fmt.Errorf("decode payload: %w", err)
	}
	return t, nil
}

func encodeEnvelope(env orders.Envelope) ([]byte, []kafka.Header, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, nil, fmt.Errorf("encode envelope: %w", err)
	}
	return b, []kafka.Header{
		{Key: HeaderEventType, Value: []byte(env.EventType)},
		{Key: HeaderEventVersion, Value: []byte(strconv.Itoa(env.EventVersion))},
	}, nil
}

// EventPublisher sends envelopes through a Producer. The request id of ctx,
// when present, becomes the trace id.
type EventPublisher struct {
	P *Producer
}

func (e EventPublisher) Publish(ctx context.Context, topic string, key []byte, env orders.Envelope) error {
	if env.TraceID == "" {
		env.TraceID = middleware.GetReqID(ctx)
	}
	value, headers, err := encodeEnvelope(env)
	if err != nil {
		return err
	}
	return e.P.Publish(ctx, topic, key, value, headers...)
}

// EnvelopeHandler decodes each message as an Envelope before calling fn.
// Undecodable messages are logged and committed.
func EnvelopeHandler(log *slog.Logger, fn func(ctx context.Context, env orders.Envelope) error) Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(ctx context.Context, m kafka.Message) error {
		var env orders.Envelope
		if err := json.Unmarshal(m.Value, &env); err != nil {
			log.Warn("drop undecodable message", "topic", m.Topic, "offset", m.Offset, "error", err)
			return nil
		}
		return fn(ctx, env)
	}
}
