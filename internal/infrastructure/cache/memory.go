package cache

import (
	"context"
	"sync"
	"time"

	"github.com/precivox/backend/internal/domain"
)

type memoryItem struct {
	value      []byte
	expiration time.Time
}

// MemoryStore is a thread-safe in-process backing store with TTL support.
type MemoryStore struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
}

// NewMemoryStore creates an in-process store and starts a sweep goroutine
// that removes expired entries every 10 minutes.
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]memoryItem),
	}
	go store.cleanupExpired()
	return store
}

// Get retrieves a value, treating expired entries as missing.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || time.Now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = memoryItem{
		value:      value,
		expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes the given keys.
func (s *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

// Size returns the current number of items (for debugging/monitoring).
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

func (s *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mutex.Lock()
		now := time.Now()
		for key, item := range s.data {
			if now.After(item.expiration) {
				delete(s.data, key)
			}
		}
		s.mutex.Unlock()
	}
}
