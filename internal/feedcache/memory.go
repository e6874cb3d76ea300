package feedcache

import (
	"sync"
	"time"

	"tidewatch/internal/domain"
)

type memoryEntry struct {
	feed     *domain.CachedFeed
	storedAt time.Time
}

// MemoryStore is the in-process cache variant, used in tests and when no
// cache directory is configured. Reads are unrestricted; writes to the
// same key are serialized by a store-wide mutex.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(url string) (*domain.CachedFeed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[Key(url)]
	if !ok {
		return nil, false
	}
	return e.feed, true
}

func (s *MemoryStore) Put(url string, feed *domain.CachedFeed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[Key(url)] = memoryEntry{feed: feed, storedAt: s.now()}
}

func (s *MemoryStore) IsFresh(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[Key(url)]
	if !ok {
		return false
	}
	return s.now().Sub(e.storedAt) < s.ttl
}
