// Package basket holds the pre-checkout selection of a workspace.
package basket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ariefcatur/go-food-orders/internal/notify"
	"github.com/ariefcatur/go-food-orders/internal/orders"
	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds the quantity of a single line.
const MaxQuantity = 10000

var ErrQuantityTooLarge = errors.New("quantity too large")

// Event is published after every change with the resulting contents.
type Event struct {
	Lines    []orders.Line
	Subtotal decimal.Decimal
}

// Basket keeps at most one line per product id, in insertion order.
// Every mutation is written to the cart slot before it becomes visible.
// Not safe for concurrent use.
type Basket struct {
	slots store.Slots
	lines []orders.Line
	hub   notify.Hub[Event]
	log   *slog.Logger
}

func New(slots store.Slots, log *slog.Logger) *Basket {
	if log == nil {
		log = slog.Default()
	}
	return &Basket{slots: slots, log: log}
}

func (b *Basket) Subscribe(fn func(Event)) func() { return b.hub.Subscribe(fn) }

// Load restores the basket from the cart slot; a missing slot is an empty basket.
func (b *Basket) Load(ctx context.Context) error {
	var saved []orders.Line
	err := store.GetJSON(ctx, b.slots, store.SlotCart, &saved)
	switch {
	case errors.Is(err, store.ErrNotFound):
		saved = nil
	case err != nil:
		return fmt.Errorf("load cart: %w", err)
	}
	b.lines = compact(saved)
	b.publish()
	return nil
}

// Reset empties the in-memory basket without writing; used once the cart
// slot has already been removed.
func (b *Basket) Reset() {
	b.lines = nil
	b.publish()
}

// AddItem merges qty into the line for p.ID, creating it if needed.
// A qty below 1 adds one unit. A line may not grow past MaxQuantity.
func (b *Basket) AddItem(ctx context.Context, p orders.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}
	next := b.copyLines()
	if i := index(next, p.ID); i >= 0 {
		if qty > MaxQuantity-next[i].Quantity {
			return fmt.Errorf("%w: line %d holds %d, max %d", ErrQuantityTooLarge, p.ID, next[i].Quantity, MaxQuantity)
		}
		next[i].Quantity += qty
	} else {
		if qty > MaxQuantity {
			return fmt.Errorf("%w: %d, max %d", ErrQuantityTooLarge, qty, MaxQuantity)
		}
		next = append(next, orders.Line{Product: p, Quantity: qty})
	}
	return b.commit(ctx, next)
}

// UpdateQuantity sets the quantity of line id; qty <= 0 removes it.
// Unknown ids are ignored.
func (b *Basket) UpdateQuantity(ctx context.Context, id int64, qty int) error {
	if qty <= 0 {
		return b.RemoveItem(ctx, id)
	}
	if qty > MaxQuantity {
		return fmt.Errorf("%w: %d, max %d", ErrQuantityTooLarge, qty, MaxQuantity)
	}
	i := index(b.lines, id)
	if i < 0 {
		return nil
	}
	next := b.copyLines()
	next[i].Quantity = qty
	return b.commit(ctx, next)
}

func (b *Basket) RemoveItem(ctx context.Context, id int64) error {
	i := index(b.lines, id)
	if i < 0 {
		return nil
	}
	next := b.copyLines()
	next = append(next[:i], next[i+1:]...)
	return b.commit(ctx, next)
}

func (b *Basket) Clear(ctx context.Context) error {
	return b.commit(ctx, []orders.Line{})
}

func (b *Basket) Lines() []orders.Line { return b.copyLines() }

func (b *Basket) Empty() bool { return len(b.lines) == 0 }

// Count is the number of units across all lines.
func (b *Basket) Count() int {
	n := 0
	for _, l := range b.lines {
		n += l.Quantity
	}
	return n
}

// Total is the subtotal without fees.
func (b *Basket) Total() decimal.Decimal { return orders.Subtotal(b.lines) }

func (b *Basket) commit(ctx context.Context, next []orders.Line) error {
	if err := store.PutJSON(ctx, b.slots, store.SlotCart, next); err != nil {
		b.log.Error("cart persist failed", "error", err)
		return fmt.Errorf("persist cart: %w", err)
	}
	b.lines = next
	b.publish()
	return nil
}

func (b *Basket) publish() {
	b.hub.Publish(Event{Lines: b.copyLines(), Subtotal: b.Total()})
}

func (b *Basket) copyLines() []orders.Line {
	return append([]orders.Line(nil), b.lines...)
}

func index(lines []orders.Line, id int64) int {
	for i, l := range lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// compact merges duplicate ids, drops non-positive quantities and caps
// lines at MaxQuantity in persisted data written by older clients.
func compact(lines []orders.Line) []orders.Line {
	var out []orders.Line
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		l.Quantity = min(l.Quantity, MaxQuantity)
		if i := index(out, l.ID); i >= 0 {
			out[i].Quantity = min(out[i].Quantity+l.Quantity, MaxQuantity)
			continue
		}
		out = append(out, l)
	}
	return out
}
