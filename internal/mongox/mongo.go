package mongox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "slots"

func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client.Database(database), nil
}

// EnsureIndexes makes (namespace, slot) unique.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(collectionName).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "namespace", Value: 1}, {Key: "slot", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

type slotDoc struct {
	Namespace string    `bson:"namespace"`
	Slot      string    `bson:"slot"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Slots keeps one document per (namespace, slot).
type Slots struct {
	collection *mongo.Collection
	namespace  string
}

func Opener(db *mongo.Database) store.Opener {
	coll := db.Collection(collectionName)
	return func(ns string) store.Slots { return &Slots{collection: coll, namespace: ns} }
}

func (s *Slots) Get(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDoc
	err := s.collection.FindOne(ctx, bson.M{"namespace": s.namespace, "slot": slot}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %s: %w", slot, err)
	}
	return doc.Value, nil
}

func (s *Slots) Put(ctx context.Context, slot string, value []byte) error {
	filter := bson.M{"namespace": s.namespace, "slot": slot}
	update := bson.M{"$set": slotDoc{
		Namespace: s.namespace,
		Slot:      slot,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}}
	if _, err := s.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("failed to upsert slot %s: %w", slot, err)
	}
	return nil
}

func (s *Slots) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	filter := bson.M{"namespace": s.namespace, "slot": bson.M{"$in": slots}}
	if _, err := s.collection.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete slots: %w", err)
	}
	return nil
}
