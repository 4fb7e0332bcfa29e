package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Slot names of a workspace.
const (
	SlotUser   = "user"
	SlotToken  = "token"
	SlotCart   = "cart"
	SlotOrders = "orders"
)

var ErrNotFound = errors.New("slot not found")

// Slots is a key-value store scoped to one workspace.
type Slots interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, value []byte) error
	Delete(ctx context.Context, slots ...string) error
}

// Opener returns the Slots of a workspace namespace.
type Opener func(namespace string) Slots

func GetJSON(ctx context.Context, s Slots, slot string, out any) error {
	b, err := s.Get(ctx, slot)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode slot %s: %w", slot, err)
	}
	return nil
}

func PutJSON(ctx context.Context, s Slots, slot string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode slot %s: %w", slot, err)
	}
	return s.Put(ctx, slot, b)
}

// Memory is a process-local Slots implementation.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory { return &Memory{data: map[string][]byte{}} }

func (m *Memory) Get(_ context.Context, slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Put(_ context.Context, slot string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[slot] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, slots ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		delete(m.data, s)
	}
	return nil
}

// MemoryOpener hands out one Memory per namespace for the life of the process.
func MemoryOpener() Opener {
	var mu sync.Mutex
	spaces := map[string]*Memory{}
	return func(ns string) Slots {
		mu.Lock()
		defer mu.Unlock()
		m, ok := spaces[ns]
		if !ok {
			m = NewMemory()
			spaces[ns] = m
		}
		return m
	}
}
