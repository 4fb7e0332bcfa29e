package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// Dedup remembers handled event ids per consumer for TTLDedup.
type Dedup struct {
	rdb      *redis.Client
	consumer string
}

func NewDedup(rdb *redis.Client, consumer string) *Dedup {
	return &Dedup{rdb: rdb, consumer: consumer}
}

// First marks eventID as handled and reports whether it was new.
func (d *Dedup) First(ctx context.Context, eventID string) (bool, error) {
	ok, err := d.rdb.SetNX(ctx, fmt.Sprintf(KeyDedup, d.consumer, eventID), "1", TTLDedup).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Slots stores a workspace under food:{namespace}:*.
type Slots struct {
	rdb       *redis.Client
	namespace string
	ttl       time.Duration
}

func NewSlots(rdb *redis.Client, namespace string) *Slots {
	return &Slots{rdb: rdb, namespace: namespace, ttl: TTLSlot}
}

// Opener builds namespaced Slots over a shared client.
func Opener(rdb *redis.Client) store.Opener {
	return func(ns string) store.Slots { return NewSlots(rdb, ns) }
}

func (s *Slots) key(slot string) string { return fmt.Sprintf(KeySlot, s.namespace, slot) }

func (s *Slots) Get(ctx context.Context, slot string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", slot, err)
	}
	return b, nil
}

func (s *Slots) Put(ctx context.Context, slot string, value []byte) error {
	if err := s.rdb.Set(ctx, s.key(slot), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", slot, err)
	}
	return nil
}

func (s *Slots) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slots))
	for _, sl := range slots {
		keys = append(keys, s.key(sl))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
