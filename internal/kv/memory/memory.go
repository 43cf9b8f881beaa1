package memory

import (
	"context"
	"sync"

	"spendwise/internal/kv"
)

// Store keeps entries in process memory. Contents are lost on exit.
type Store struct {
	mu    sync.Mutex
	items map[string][]byte
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

// NewWithSeed returns a store pre-populated with the given entries.
func NewWithSeed(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.items[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Close() error { return nil }
