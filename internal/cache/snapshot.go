// Package cache holds fetch-on-invalidate snapshots. A change event for a
// table marks its snapshot stale; the next read refetches the whole
// collection rather than patching incrementally.
package cache

import (
	"context"
	"sync"
)

type Snapshot[T any] struct {
	mu    sync.RWMutex
	value T
	valid bool
	fetch func(context.Context) (T, error)
}

func NewSnapshot[T any](fetch func(context.Context) (T, error)) *Snapshot[T] {
	return &Snapshot[T]{fetch: fetch}
}

// Get returns the cached value, refetching first when the snapshot is stale.
// A failed refetch leaves the snapshot stale and returns the error.
func (s *Snapshot[T]) Get(ctx context.Context) (T, error) {
	s.mu.RLock()
	if s.valid {
		v := s.value
		s.mu.RUnlock()
		return v, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.valid {
		return s.value, nil
	}
	v, err := s.fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.value = v
	s.valid = true
	return v, nil
}

func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
}
