package answercache

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	expiresAt time.Time
	payload   []byte
}

// MemoryStore is the bounded in-process KVStore backend used for the
// memory:// DSN and in unit tests. It wraps an LRU cache so a long-running
// process with the in-memory backend selected cannot grow without bound;
// eviction by capacity is on top of, not instead of, TTL expiry.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, memoryEntry]
}

// NewMemoryStore constructs a MemoryStore bounded to at most size entries.
func NewMemoryStore(size int) *MemoryStore {
	if size <= 0 {
		size = 4096
	}
	c, _ := lru.New[string, memoryEntry](size)
	return &MemoryStore{cache: c}
}

// Get implements KVStore.
func (s *MemoryStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		s.cache.Remove(key)
		return nil, false
	}
	return entry.payload, true
}

// SetIfAbsent implements KVStore.
func (s *MemoryStore) SetIfAbsent(key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.cache.Get(key); ok && time.Now().Before(existing.expiresAt) {
		return false, nil
	}
	s.cache.Add(key, memoryEntry{expiresAt: time.Now().Add(ttl), payload: value})
	return true, nil
}

// Clear implements KVStore.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Purge()
	return nil
}
