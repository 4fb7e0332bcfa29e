package mongox

import (
	"context"
	"testing"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) *mongo.Database {
	if testing.Short() {
		t.Skip("skipping mongo container test in short mode")
	}
	ctx := context.Background()

	var container *mongodb.MongoDBContainer
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("docker unavailable: %v", r)
			}
		}()
		container, err = mongodb.Run(ctx, "mongo:7")
	}()
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := Connect(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Client().Disconnect(context.Background()) })

	require.NoError(t, EnsureIndexes(ctx, db))
	return db
}

func TestSlots_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := Opener(db)("client-1")

	_, err := s.Get(ctx, store.SlotCart)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, store.SlotCart, []byte(`[{"id":101}]`)))
	require.NoError(t, s.Put(ctx, store.SlotCart, []byte(`[]`)))

	b, err := s.Get(ctx, store.SlotCart)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))

	n, err := db.Collection(collectionName).CountDocuments(ctx, map[string]string{"namespace": "client-1"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "upsert keeps one document per slot")
}

func TestSlots_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	s := Opener(db)("client-1")
	other := Opener(db)("client-2")

	require.NoError(t, s.Put(ctx, store.SlotUser, []byte(`{}`)))
	require.NoError(t, other.Put(ctx, store.SlotUser, []byte(`{}`)))

	require.NoError(t, s.Delete(ctx, store.SlotUser, store.SlotToken))

	_, err := s.Get(ctx, store.SlotUser)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = other.Get(ctx, store.SlotUser)
	assert.NoError(t, err)
}
