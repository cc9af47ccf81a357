package cache

// LayeredStore combines a memory front with a disk store behind it, so
// repeated loads within one session skip the filesystem.
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore creates a layered store persisting to dir.
func NewLayeredStore(dir string) *LayeredStore {
	return &LayeredStore{
		memory: NewMemoryStore(),
		disk:   NewDiskStore(dir),
	}
}

// Load checks memory first, then disk, promoting disk hits to memory.
func (s *LayeredStore) Load(name string) ([]byte, bool) {
	if val, found := s.memory.Load(name); found {
		return val, true
	}
	if val, found := s.disk.Load(name); found {
		_ = s.memory.Save(name, val)
		return val, true
	}
	return nil, false
}

// Save stores data in both layers.
func (s *LayeredStore) Save(name string, data []byte) error {
	if err := s.memory.Save(name, data); err != nil {
		return err
	}
	return s.disk.Save(name, data)
}

// Clear empties both layers.
func (s *LayeredStore) Clear() error {
	if err := s.memory.Clear(); err != nil {
		return err
	}
	return s.disk.Clear()
}
