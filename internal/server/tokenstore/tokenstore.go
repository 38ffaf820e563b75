// Package tokenstore remembers which verification tokens have been used so
// each one creates at most one account.
package tokenstore

import (
	"context"
	"sync"
	"time"
)

// Store tracks consumed token IDs.
type Store interface {
	// Consume marks id as used for ttl. It reports false when id was already
	// consumed.
	Consume(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Release forgets id so the token can be presented again.
	Release(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store for single-instance deployments and
// tests.
type MemoryStore struct {
	mu    sync.Mutex
	now   func() time.Time
	items map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, items: make(map[string]time.Time)}
}

func (s *MemoryStore) Consume(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	if _, ok := s.items[id]; ok {
		return false, nil
	}
	s.items[id] = now.Add(ttl)
	return true, nil
}

func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, id)
	return nil
}

// sweep drops expired entries; callers hold mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, exp := range s.items {
		if !now.Before(exp) {
			delete(s.items, id)
		}
	}
}
