package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"realty/internal/adapters/observability"
)

// Slot keeps each durable slot as one row in catalog_slots.
type Slot struct{ db *sql.DB }

func New(db *sql.DB) *Slot { return &Slot{db: db} }

// EnsureSchema creates the slots table when migrations have not been run.
func (s *Slot) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSlotsSQL); err != nil {
		return fmt.Errorf("create catalog_slots: %w", err)
	}
	return nil
}

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, getSlotSQL, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveSlot("mysql", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveSlot("mysql", "error")
		return nil, false, err
	}
	observability.ObserveSlot("mysql", "hit")
	return payload, true, nil
}

func (s *Slot) Put(ctx context.Context, key string, val []byte) error {
	if _, err := s.db.ExecContext(ctx, putSlotSQL, key, string(val)); err != nil {
		observability.ObserveSlot("mysql", "error")
		return err
	}
	observability.ObserveSlot("mysql", "put")
	return nil
}
