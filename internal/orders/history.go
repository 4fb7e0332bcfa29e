package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/store"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type HistoryEventKind string

const (
	HistoryLoaded        HistoryEventKind = "loaded"
	HistoryOrderPlaced   HistoryEventKind = "placed"
	HistoryStatusChanged HistoryEventKind = "status_changed"
)

type HistoryEvent struct {
	Kind   HistoryEventKind
	Order  Order // zero for HistoryLoaded
	Orders []Order
}

// History is the list of placed orders, newest first, persisted in the
// orders slot. It is not safe for concurrent use.
type History struct {
	slots  store.Slots
	orders []Order
	hub    notify.Hub[HistoryEvent]
	log    *slog.Logger
}

func NewHistory(slots store.Slots, log *slog.Logger) *History {
	if log == nil {
		log = slog.Default()
	}
	return &History{slots: slots, log: log}
}

func (h *History) Subscribe(fn func(HistoryEvent)) func() { return h.hub.Subscribe(fn) }

// Load restores the history. An absent or empty history is replaced by the
// illustrative seed orders, which are persisted.
func (h *History) Load(ctx context.Context, now time.Time) error {
	var saved []Order
	err := store.GetJSON(ctx, h.slots, store.SlotOrders, &saved)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("load orders: %w", err)
	}
	if len(saved) == 0 {
		saved = SeedOrders(now)
		if err := store.PutJSON(ctx, h.slots, store.SlotOrders, saved); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
		h.log.Debug("order history seeded", "orders", len(saved))
	}
	h.orders = saved
	h.hub.Publish(HistoryEvent{Kind: HistoryLoaded, Orders: h.Orders()})
	return nil
}

func (h *History) Orders() []Order {
	out := make([]Order, 0, len(h.orders))
	for _, o := range h.orders {
		out = append(out, o.clone())
	}
	return out
}

func (h *History) Get(id int64) (Order, bool) {
	for _, o := range h.orders {
		if o.ID == id {
			return o.clone(), true
		}
	}
	return Order{}, false
}

// NextID derives an order id from the checkout time, kept above every
// existing id so two checkouts in the same millisecond stay distinct.
func (h *History) NextID(at time.Time) int64 {
	id := at.UnixMilli()
	for _, o := range h.orders {
		if o.ID >= id {
			id = o.ID + 1
		}
	}
	return id
}

// Prepend stores o as the newest order.
func (h *History) Prepend(ctx context.Context, o Order) error {
	if _, exists := h.Get(o.ID); exists {
		return fmt.Errorf("order %d already exists", o.ID)
	}
	next := make([]Order, 0, len(h.orders)+1)
	next = append(next, o.clone())
	next = append(next, h.orders...)
	if err := store.PutJSON(ctx, h.slots, store.SlotOrders, next); err != nil {
		return fmt.Errorf("persist orders: %w", err)
	}
	h.orders = next
	h.hub.Publish(HistoryEvent{Kind: HistoryOrderPlaced, Order: o.clone(), Orders: h.Orders()})
	return nil
}

// Advance moves order id to status to. Moving to the current status is a
// no-op so redelivered status events are harmless.
func (h *History) Advance(ctx context.Context, id int64, to Status, at time.Time) (Order, error) {
	idx := -1
	for i, o := range h.orders {
		if o.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Order{}, fmt.Errorf("%w: %d", ErrOrderNotFound, id)
	}
	cur := h.orders[idx]
	if cur.Status == to {
		return cur.clone(), nil
	}
	if !CanTransition(cur.Status, to) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, to)
	}

	updated := cur.clone()
	updated.Status = to
	if to == StatusDelivered {
		t := at.UTC()
		updated.DeliveredAt = &t
	}
	next := append([]Order(nil), h.orders...)
	next[idx] = updated
	if err := store.PutJSON(ctx, h.slots, store.SlotOrders, next); err != nil {
		return Order{}, fmt.Errorf("persist orders: %w", err)
	}
	h.orders = next
	h.log.Info("order status changed", "order_id", id, "from", cur.Status, "to", to)
	h.hub.Publish(HistoryEvent{Kind: HistoryStatusChanged, Order: updated.clone(), Orders: h.Orders()})
	return updated.clone(), nil
}
