package cache

import (
	"sync"
	"time"
)

const sweepInterval = time.Minute

// MemoryStore keeps short-lived values in process memory. It backs the OAuth
// state store when no Redis address is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	value     string
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-memory store and starts its expiry sweep
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{entries: make(map[string]entry)}
	go s.sweep()
	return s
}

func (s *MemoryStore) Set(key, value string, expiration time.Duration) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(expiration)}
	s.mu.Unlock()
}

// Get returns the value for key. An expired entry is removed and reported as
// a miss.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(s.entries, key)
		return "", false
	}
	return e.value, true
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// sweep drops expired entries so abandoned state tokens do not accumulate
func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, e := range s.entries {
			if now.After(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()
	}
}
