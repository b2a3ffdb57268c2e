package host

import "sync"

// PreferenceStore persists key/value preferences. Real persistence backends
// are provided by the embedding application.
type PreferenceStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
}

// MemoryStore is a PreferenceStore kept in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]any)}
}

// Get implements PreferenceStore.
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok
}

// Set implements PreferenceStore.
func (s *MemoryStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		s.values = make(map[string]any)
	}

	s.values[key] = value
}

// Delete implements PreferenceStore.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}
