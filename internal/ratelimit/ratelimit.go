// Package ratelimit provides fixed-window request counters behind a small
// store interface, so the in-process map can be swapped for Redis without
// touching route wiring.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// CounterStore increments the counter for a key and reports the count within
// the current window plus when that window ends.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (count int, windowEnd time.Time, err error)
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// MemoryStore is the single-instance default: a mutex-guarded bucket map.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		buckets: make(map[string]*bucket),
	}
}

func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[key]

	if !ok || now.After(b.windowEnd) {
		b = &bucket{count: 0, windowEnd: now.Add(window)}
		s.buckets[key] = b
	}

	b.count++

	return b.count, b.windowEnd, nil
}
