package cache

import (
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps entries in memory without expiration. It fronts the
// disk store in LayeredStore and doubles as the filesystem-free stand-in
// for tests.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates an empty memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Load retrieves the bytes stored under name, if any.
func (s *MemoryStore) Load(name string) ([]byte, bool) {
	if val, found := s.cache.Get(name); found {
		return val.([]byte), true
	}
	return nil, false
}

// Save stores data under name.
func (s *MemoryStore) Save(name string, data []byte) error {
	s.cache.Set(name, data, gocache.NoExpiration)
	return nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear() error {
	s.cache.Flush()
	return nil
}
