package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/raincheck/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh payload is cached for a key.
	ErrNotFound = errors.New("no cached weather payload for location")
)

type entry struct {
	payload   *weather.Payload
	fetchedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache holding the latest raw
// provider payload per location key.
type MemoryStore struct {
	mu sync.RWMutex

	data map[string]entry

	maxEntries int           // max number of cached locations
	maxAge     time.Duration // entries older than this are treated as missing
	now        func() time.Time
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries or maxAge is <= 0, that limit is disabled.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// SavePayload replaces the cached payload for key and enforces retention.
func (s *MemoryStore) SavePayload(key string, p *weather.Payload, fetchedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{payload: p, fetchedAt: fetchedAt}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.now().Add(-s.maxAge)
		for k, e := range s.data {
			if e.fetchedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, evicting the oldest entries.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
		)
		for k, e := range s.data {
			if oldestKey == "" || e.fetchedAt.Before(oldest) {
				oldestKey, oldest = k, e.fetchedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

// GetPayload returns the cached payload for key if it is still fresh.
func (s *MemoryStore) GetPayload(key string) (*weather.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(e.fetchedAt) > s.maxAge {
		return nil, ErrNotFound
	}
	return e.payload, nil
}

// Len returns the number of cached locations, stale ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
