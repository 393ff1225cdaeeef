// Package cache provides the two room-caching layers: the live adjacency
// manager that decides which rooms stay resident as the player moves, and the
// persistent seed-scoped cache that survives restarts. Persistence goes
// through an injected Store so quota failures are a typed, testable branch.
package cache

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Store.Get when the key has no value.
var ErrNotFound = errors.New("cache: key not found")

// ErrQuotaExceeded is returned by Store.Set when the backend is out of space.
// The persistent cache reacts by clearing itself and retrying once.
var ErrQuotaExceeded = errors.New("cache: storage quota exceeded")

// Store is the persistent key-value backend behind PersistentRoomCache.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	Close() error
}

// MemoryStore is an in-process Store. MaxBytes bounds the total stored value
// size; writes that would exceed it fail with ErrQuotaExceeded. Zero means
// unbounded.
type MemoryStore struct {
	MaxBytes int

	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{
		MaxBytes: maxBytes,
		data:     make(map[string][]byte),
	}
}

// Get returns the value for key, or ErrNotFound.
func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key, enforcing MaxBytes across all values.
func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.MaxBytes > 0 {
		total := len(value)
		for k, v := range s.data {
			if k == key {
				continue
			}
			total += len(v)
		}
		if total > s.MaxBytes {
			return ErrQuotaExceeded
		}
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}
