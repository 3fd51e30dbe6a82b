package pebbleslot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"realty/internal/adapters/observability"
)

// Slot is an embedded on-disk slot. Writes are synced: the catalog snapshot
// is the only copy of admin edits.
type Slot struct {
	db *pebble.DB
}

func Open(dir string) (*Slot, error) {
	return open(filepath.Clean(dir), &pebble.Options{})
}

// OpenInMem opens a slot backed by memory only. Contents die with the process.
func OpenInMem() (*Slot, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()})
}

func open(dir string, opts *pebble.Options) (*Slot, error) {
	d, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &Slot{db: d}, nil
}

func (s *Slot) Close() error { return s.db.Close() }

func (s *Slot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		observability.ObserveSlot("pebble", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveSlot("pebble", "error")
		return nil, false, err
	}
	defer closer.Close()
	observability.ObserveSlot("pebble", "hit")
	// v is only valid until closer.Close
	return append([]byte(nil), v...), true, nil
}

func (s *Slot) Put(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.db.Set([]byte(key), val, pebble.Sync); err != nil {
		observability.ObserveSlot("pebble", "error")
		return err
	}
	observability.ObserveSlot("pebble", "put")
	return nil
}
