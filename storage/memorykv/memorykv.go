package memorykv

import (
	"sync"

	"github.com/virtualpet/storefront/storage"
)

// Store is an in-memory implementation of storage.KV, used by unit tests
// in place of the SQLite-backed store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ storage.KV = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value for key, with false when the key is absent.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set writes key to value, overwriting any previous value.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
