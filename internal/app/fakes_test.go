package app

import (
	"context"
	"errors"
	"sync"
)

// memSlot is an in-memory domain.Slot with switchable failures.
type memSlot struct {
	mu      sync.Mutex
	m       map[string][]byte
	getErr  error
	putErr  error
	putHits int
}

func newMemSlot() *memSlot { return &memSlot{m: map[string][]byte{}} }

func (s *memSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	b, ok := s.m[key]
	return append([]byte(nil), b...), ok, nil
}

func (s *memSlot) Put(ctx context.Context, key string, val []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putHits++
	if s.putErr != nil {
		return s.putErr
	}
	s.m[key] = append([]byte(nil), val...)
	return nil
}

var errDisk = errors.New("disk full")
