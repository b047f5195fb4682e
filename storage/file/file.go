package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/indigo-web/pollbin/storage"
)

// counterFile holds the id the next record is going to get, which equals to the number of
// records stored.
const counterFile = "ID"

// Storage keeps every record in a separate file, named by its id. Creating a record is a
// read-modify-write of the counter file, so it's serialized by a mutex.
type Storage struct {
	mu  sync.Mutex
	dir string
}

// New creates the directory, if it doesn't exist yet.
func New(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file storage: %w", err)
	}

	return &Storage{dir: dir}, nil
}

func (s *Storage) Create(data string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.counter()
	if err != nil {
		return 0, err
	}

	if err = os.WriteFile(s.recordPath(id), []byte(data), 0o644); err != nil {
		return 0, fmt.Errorf("file storage: %w", err)
	}

	if err = s.setCounter(id + 1); err != nil {
		return 0, err
	}

	return id, nil
}

func (s *Storage) Read(id int) (string, error) {
	s.mu.Lock()
	count, err := s.counter()
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	if id < 0 || id >= count {
		return "", storage.ErrNotFound
	}

	data, err := os.ReadFile(s.recordPath(id))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", storage.ErrNotFound
	case err != nil:
		return "", fmt.Errorf("file storage: %w", err)
	}

	return string(data), nil
}

func (s *Storage) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.counter()
}

func (s *Storage) counter() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, counterFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("file storage: %w", err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("file storage: corrupted %s file: %q", counterFile, data)
	}

	return n, nil
}

// setCounter replaces the counter file atomically, so it's never seen half-written.
func (s *Storage) setCounter(n int) error {
	tmp, err := os.CreateTemp(s.dir, counterFile+".*")
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}

	_, err = tmp.WriteString(strconv.Itoa(n))
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), filepath.Join(s.dir, counterFile))
	}

	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("file storage: %w", err)
	}

	return nil
}

func (s *Storage) recordPath(id int) string {
	return filepath.Join(s.dir, strconv.Itoa(id))
}
