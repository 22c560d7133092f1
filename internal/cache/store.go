package cache

import (
	"context"
	"strings"
	"sync"
)

// Store is a fetch-through cache for serialized computation results.
// Keys embed every input the cached value depends on, so correctness
// never rests on explicit invalidation; Delete and DeleteMatching only
// reclaim space.
type Store interface {
	// Fetch returns the cached value for key, or runs compute, stores
	// its result, and returns it. A cache miss followed by a compute
	// error stores nothing.
	Fetch(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error)

	// Delete removes a single entry. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMatching removes every entry whose key contains substr and
	// reports how many were removed.
	DeleteMatching(ctx context.Context, substr string) (int, error)

	Close() error
}

// MemoryStore is a process-local Store for tests and cache-less runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (s *MemoryStore) Fetch(_ context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	s.mu.Lock()
	if v, ok := s.entries[key]; ok {
		s.mu.Unlock()
		return v, nil
	}
	s.mu.Unlock()

	// Compute outside the lock: computations can be slow and must not
	// serialize unrelated fetches.
	v, err := compute()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries[key] = v
	s.mu.Unlock()
	return v, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) DeleteMatching(_ context.Context, substr string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k := range s.entries {
		if strings.Contains(k, substr) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports the number of live entries. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
