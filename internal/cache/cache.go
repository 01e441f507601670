// Package cache provides the result cache behind the advisor pipeline. Two
// implementations exist: an in-process store for single-node deployments and
// a Redis store for anything shared.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the minimal cache contract the advisor needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type memoryItem struct {
	value      string
	expiration time.Time
}

// MemoryStore is a thread-safe in-memory Store with TTL support.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryItem
}

// NewMemoryStore creates an empty in-memory store and starts its periodic
// expiry sweep.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{data: make(map[string]memoryItem)}
	go s.sweep()
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.data[key]
	if !ok || time.Now().After(item.expiration) {
		return "", false
	}
	return item.value, true
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = memoryItem{value: value, expiration: time.Now().Add(ttl)}
	return nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for key, item := range s.data {
			if now.After(item.expiration) {
				delete(s.data, key)
			}
		}
		s.mu.Unlock()
	}
}
