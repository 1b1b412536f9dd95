package kvRepo

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process Store. It encodes through the same envelope as
// the networked stores so version handling behaves identically.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore. A zero ttl keeps keys forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string, dst interface{}) error {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if s.expired(entry) {
		// Re-check under the write lock; a Set may have replaced the entry.
		s.mu.Lock()
		entry, ok = s.entries[key]
		if ok && s.expired(entry) {
			delete(s.entries, key)
			ok = false
		}
		s.mu.Unlock()
		if !ok {
			return ErrNotFound
		}
	}
	return decode(entry.data, dst)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(s.now())
}

func (s *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	entry := memoryEntry{data: data}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
	return nil
}

// SetRaw stores raw bytes under key, bypassing the envelope encoder.
func (s *MemoryStore) SetRaw(key string, raw []byte) {
	s.mu.Lock()
	s.entries[key] = memoryEntry{data: raw}
	s.mu.Unlock()
}

// Len returns the number of stored keys, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
