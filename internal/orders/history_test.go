package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlots struct{ store.Slots }

func (failingSlots) Put(context.Context, string, []byte) error { return errors.New("disk full") }

var testNow = time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)

func TestHistory_LoadSeedsWhenEmpty(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	h := NewHistory(slots, nil)

	require.NoError(t, h.Load(ctx, testNow))

	got := h.Orders()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1001), got[0].ID)
	assert.Equal(t, StatusDelivered, got[0].Status)
	require.NotNil(t, got[0].DeliveredAt)
	assert.Equal(t, testNow.Add(-48*time.Hour+30*time.Minute), *got[0].DeliveredAt)
	assert.Equal(t, "37.95", got[0].Total.StringFixed(2))
	assert.Equal(t, StatusOnTheWay, got[1].Status)

	// persisted
	_, err := slots.Get(ctx, store.SlotOrders)
	assert.NoError(t, err)
}

func TestHistory_LoadKeepsExisting(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	o := Snapshot(42, []Line{line(1, "5.00", 1)}, DefaultFees(), testNow)
	require.NoError(t, store.PutJSON(ctx, slots, store.SlotOrders, []Order{o}))

	h := NewHistory(slots, nil)
	require.NoError(t, h.Load(ctx, testNow))

	got := h.Orders()
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].ID)
	assert.Equal(t, "9.98", got[0].Total.StringFixed(2))
}

func TestHistory_LoadCorruptSlot(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	require.NoError(t, slots.Put(ctx, store.SlotOrders, []byte("{")))

	err := NewHistory(slots, nil).Load(ctx, testNow)

	assert.Error(t, err)
}

func TestHistory_PrependNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(store.NewMemory(), nil)
	require.NoError(t, h.Load(ctx, testNow))

	var events []HistoryEvent
	h.Subscribe(func(e HistoryEvent) { events = append(events, e) })

	id := h.NextID(testNow)
	o := Snapshot(id, []Line{line(101, "12.99", 1)}, DefaultFees(), testNow)
	require.NoError(t, h.Prepend(ctx, o))

	got := h.Orders()
	require.Len(t, got, 3)
	assert.Equal(t, id, got[0].ID)
	require.Len(t, events, 1)
	assert.Equal(t, HistoryOrderPlaced, events[0].Kind)
	assert.Equal(t, id, events[0].Order.ID)

	assert.Error(t, h.Prepend(ctx, o), "duplicate id rejected")
}

func TestHistory_PrependPersistFailureLeavesState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	h := NewHistory(mem, nil)
	require.NoError(t, h.Load(ctx, testNow))

	h.slots = failingSlots{mem}
	err := h.Prepend(ctx, Snapshot(7, []Line{line(1, "1.00", 1)}, DefaultFees(), testNow))

	assert.Error(t, err)
	assert.Len(t, h.Orders(), 2)
}

func TestHistory_NextIDIsUnique(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(store.NewMemory(), nil)
	require.NoError(t, h.Load(ctx, testNow))

	first := h.NextID(testNow)
	assert.Equal(t, testNow.UnixMilli(), first)
	require.NoError(t, h.Prepend(ctx, Snapshot(first, nil, DefaultFees(), testNow)))

	assert.Equal(t, first+1, h.NextID(testNow))
}

func TestHistory_Advance(t *testing.T) {
	ctx := context.Background()
	slots := store.NewMemory()
	h := NewHistory(slots, nil)
	require.NoError(t, h.Load(ctx, testNow))
	o := Snapshot(5000, []Line{line(101, "12.99", 1)}, DefaultFees(), testNow)
	require.NoError(t, h.Prepend(ctx, o))

	for _, s := range []Status{StatusPreparing, StatusOnTheWay} {
		got, err := h.Advance(ctx, 5000, s, testNow)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
		assert.Nil(t, got.DeliveredAt)
	}

	deliveredAt := testNow.Add(25 * time.Minute)
	got, err := h.Advance(ctx, 5000, StatusDelivered, deliveredAt)
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.Equal(t, deliveredAt, *got.DeliveredAt)
	assert.Len(t, got.Items, 1, "lines are untouched")

	// persisted state survives a reload
	reloaded := NewHistory(slots, nil)
	require.NoError(t, reloaded.Load(ctx, testNow))
	stored, ok := reloaded.Get(5000)
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, stored.Status)
}

func TestHistory_AdvanceRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(store.NewMemory(), nil)
	require.NoError(t, h.Load(ctx, testNow))

	_, err := h.Advance(ctx, 1001, StatusCancelled, testNow) // delivered is terminal
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = h.Advance(ctx, 1002, StatusCancelled, testNow) // on-the-way cannot cancel
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = h.Advance(ctx, 999, StatusPreparing, testNow)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	o, ok := h.Get(1002)
	require.True(t, ok)
	assert.Equal(t, StatusOnTheWay, o.Status)
}

func TestHistory_AdvanceSameStatusIsNoop(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(store.NewMemory(), nil)
	require.NoError(t, h.Load(ctx, testNow))
	calls := 0
	h.Subscribe(func(HistoryEvent) { calls++ })

	o, err := h.Advance(ctx, 1002, StatusOnTheWay, testNow)

	require.NoError(t, err)
	assert.Equal(t, StatusOnTheWay, o.Status)
	assert.Zero(t, calls)
}

func TestHistory_OrdersReturnsCopies(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(store.NewMemory(), nil)
	require.NoError(t, h.Load(ctx, testNow))

	got := h.Orders()
	got[0].Items[0].Quantity = 50
	got[0].Status = StatusCancelled

	again, _ := h.Get(1001)
	assert.Equal(t, 2, again.Items[0].Quantity)
	assert.Equal(t, StatusDelivered, again.Status)
}
