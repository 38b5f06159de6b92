// Package memory is a process-local KV, used for tests and throwaway sessions.
package memory

import (
	"context"
	"sync"

	"budget/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
}

var _ storage.KV = (*Store)(nil)

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewWithValues seeds the store, e.g. with a snapshot taken elsewhere.
func NewWithValues(seed map[string]string) *Store {
	s := New()
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Snapshot returns a copy of every stored value.
func (s *Store) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Store) Close() error {
	return nil
}
