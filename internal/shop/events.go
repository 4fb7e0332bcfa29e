package shop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// Publisher sends an event envelope to a topic, keyed for partitioning.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, env orders.Envelope) error
}

// HandleStatusEvent applies an OrderStatusUpdated envelope to its workspace.
// Events that can never apply (unknown order, bad transition, other event
// types) are logged and acknowledged; only storage failures are returned.
func (r *Registry) HandleStatusEvent(ctx context.Context, env orders.Envelope) error {
	if env.EventType != orders.EventStatusUpdated {
		return nil
	}
	var p orders.OrderStatusPayload
	if err := json.Unmarshal(env.Payload, &p); err != nil {
		r.log.Warn("drop status event: bad payload", "event_id", env.EventID, "error", err)
		return nil
	}
	if p.Workspace == "" {
		r.log.Warn("drop status event: no workspace", "event_id", env.EventID)
		return nil
	}
	if _, err := orders.ParseStatus(string(p.Status)); err != nil {
		r.log.Warn("drop status event", "event_id", env.EventID, "error", err)
		return nil
	}

	w, err := r.Get(ctx, p.Workspace)
	if err != nil {
		return fmt.Errorf("status event %s: %w", env.EventID, err)
	}
	_, err = w.ObserveStatus(ctx, p.OrderID, p.Status)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrInvalidTransition):
		r.log.Warn("drop status event", "event_id", env.EventID, "workspace", p.Workspace, "order_id", p.OrderID, "error", err)
		return nil
	case err != nil:
		return fmt.Errorf("status event %s: %w", env.EventID, err)
	}
	return nil
}
