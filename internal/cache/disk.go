package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// DiskStore persists one JSON file per cache name under a directory.
// Entries have no TTL; they live until overwritten or cleared.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk store rooted at dir. The directory is
// created lazily on the first save.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Load retrieves the raw bytes stored under name, if any.
func (s *DiskStore) Load(name string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save stores data under name, overwriting any prior entry.
func (s *DiskStore) Save(name string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(s.path(name), data, 0644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}

// Clear removes the whole cache directory.
func (s *DiskStore) Clear() error {
	return os.RemoveAll(s.dir)
}

// path generates the file path for a cache name.
func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}
