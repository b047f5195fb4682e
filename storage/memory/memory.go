package memory

import (
	"sync"

	"github.com/indigo-web/pollbin/storage"
)

// Storage keeps records in memory, so they are lost on restart.
type Storage struct {
	mu      sync.RWMutex
	records []string
}

func New() *Storage {
	return new(Storage)
}

func (s *Storage) Create(data string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, data)
	return len(s.records) - 1, nil
}

func (s *Storage) Read(id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 0 || id >= len(s.records) {
		return "", storage.ErrNotFound
	}

	return s.records[id], nil
}

func (s *Storage) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records), nil
}
