package cache

import "sync"

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]map[string]Entry)}
}

// Get implements Store.
func (s *MemoryStore) Get(namespace, key string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ns, ok := s.entries[namespace]; ok {
		if e, ok := ns[key]; ok {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// Put implements Store.
func (s *MemoryStore) Put(namespace, key string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.entries[namespace]
	if !ok {
		ns = make(map[string]Entry)
		s.entries[namespace] = ns
	}
	// Copy so callers can reuse their buffer.
	e.Value = append([]byte(nil), e.Value...)
	ns[key] = e
	return nil
}

// Clear implements Store.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	s.entries = make(map[string]map[string]Entry)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, ns := range s.entries {
		n += len(ns)
	}
	return n
}
