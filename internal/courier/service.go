// Package courier simulates the delivery side: every placed order is walked
// through its remaining statuses, one step at a time.
package courier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	kafkax "github.com/ariefcatur/go-food-orders/internal/kafka"
	"github.com/ariefcatur/go-food-orders/internal/orders"
)

// Route is the status sequence published for every order.
var Route = []orders.Status{orders.StatusPreparing, orders.StatusOnTheWay, orders.StatusDelivered}

type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, env orders.Envelope) error
}

type Dedup interface {
	First(ctx context.Context, eventID string) (bool, error)
}

type Service struct {
	Publisher   Publisher
	Dedup       Dedup // optional
	Step        time.Duration
	ServiceName string
	Log         *slog.Logger

	wg sync.WaitGroup
}

// HandleOrderPlaced starts a delivery for an OrderPlaced envelope and
// returns at once, so the offset can be committed.
func (s *Service) HandleOrderPlaced(ctx context.Context, env orders.Envelope) error {
	if env.EventType != orders.EventOrderPlaced {
		return nil
	}
	log := s.logger().With("event_id", env.EventID)

	if s.Dedup != nil {
		first, err := s.Dedup.First(ctx, env.EventID)
		if err != nil {
			return err
		}
		if !first {
			log.Debug("duplicate order event")
			return nil
		}
	}

	p, err := kafkax.UnwrapPayload[orders.OrderPlacedPayload](env.Payload)
	if err != nil {
		log.Warn("drop order event", "error", err)
		return nil
	}

	log.Info("delivery started", "workspace", p.Workspace, "order_id", p.OrderID)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.deliver(ctx, p, env.TraceID)
	}()
	return nil
}

// Wait blocks until every started delivery has finished or given up.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) deliver(ctx context.Context, p orders.OrderPlacedPayload, traceID string) {
	log := s.logger().With("workspace", p.Workspace, "order_id", p.OrderID)
	timer := time.NewTimer(s.Step)
	defer timer.Stop()

	for i, st := range Route {
		if i > 0 {
			timer.Reset(s.Step)
		}
		select {
		case <-ctx.Done():
			log.Info("delivery interrupted", "next", st)
			return
		case <-timer.C:
		}

		env, err := orders.NewEnvelope(orders.EventStatusUpdated, s.ServiceName,
			orders.CorrelationID(p.Workspace, p.OrderID),
			orders.OrderStatusPayload{Workspace: p.Workspace, OrderID: p.OrderID, Status: st, Reason: "courier"})
		if err != nil {
			log.Error("build status event", "error", err)
			return
		}
		env.TraceID = traceID
		if err := s.Publisher.Publish(ctx, orders.TopicOrderStatus, orders.PartitionKey(p.Workspace), env); err != nil {
			log.Error("publish status", "status", st, "error", err)
			return
		}
		log.Info("status published", "status", st)
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
