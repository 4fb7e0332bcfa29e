package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-food-orders/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Slots keeps one row per (namespace, slot) in kv_slots.
type Slots struct {
	DB        *pgxpool.Pool
	Namespace string
}

func Opener(db *pgxpool.Pool) store.Opener {
	return func(ns string) store.Slots { return &Slots{DB: db, Namespace: ns} }
}

func (s *Slots) Get(ctx context.Context, slot string) ([]byte, error) {
	var b []byte
	err := s.DB.QueryRow(ctx,
		`SELECT value FROM kv_slots WHERE namespace=$1 AND slot=$2`, s.Namespace, slot).Scan(&b)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select slot %s: %w", slot, err)
	}
	return b, nil
}

func (s *Slots) Put(ctx context.Context, slot string, value []byte) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO kv_slots(namespace, slot, value, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, slot) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.Namespace, slot, value)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", slot, err)
	}
	return nil
}

func (s *Slots) Delete(ctx context.Context, slots ...string) error {
	if len(slots) == 0 {
		return nil
	}
	_, err := s.DB.Exec(ctx,
		`DELETE FROM kv_slots WHERE namespace=$1 AND slot = ANY($2)`, s.Namespace, slots)
	if err != nil {
		return fmt.Errorf("delete slots: %w", err)
	}
	return nil
}
