package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, SlotUser)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.Put(ctx, SlotUser, []byte(`{"id":1}`)))
	require.NoError(t, m.Put(ctx, SlotToken, []byte("demo-token")))

	b, err := m.Get(ctx, SlotUser)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(b))

	require.NoError(t, m.Delete(ctx, SlotUser, SlotToken, SlotCart))
	_, err = m.Get(ctx, SlotToken)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	src := []byte("abc")
	require.NoError(t, m.Put(ctx, SlotCart, src))
	src[0] = 'x'

	b, err := m.Get(ctx, SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(b))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type rec struct {
		Name string `json:"name"`
	}
	require.NoError(t, PutJSON(ctx, m, SlotUser, rec{Name: "Demo"}))

	var out rec
	require.NoError(t, GetJSON(ctx, m, SlotUser, &out))
	assert.Equal(t, "Demo", out.Name)

	require.NoError(t, m.Put(ctx, SlotOrders, []byte("not json")))
	err := GetJSON(ctx, m, SlotOrders, &out)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMemoryOpener_IsolatesNamespaces(t *testing.T) {
	ctx := context.Background()
	open := MemoryOpener()

	require.NoError(t, open("a").Put(ctx, SlotToken, []byte("t1")))

	_, err := open("b").Get(ctx, SlotToken)
	assert.ErrorIs(t, err, ErrNotFound)

	b, err := open("a").Get(ctx, SlotToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", string(b))
}
