package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/taskx/internal/shared"
)

// Storage is durable client-side key/value storage.
//
// Load reports found=false, without error, for a key that was never saved or was removed.
type Storage interface {
	Load(key string) (value []byte, found bool, err error)
	Save(key string, value []byte) error
	Remove(key string) error
}

// FileStorage keeps one JSON document per key in a directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a [FileStorage] rooted at dir ("~" is expanded).
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: shared.ExpandPath(dir)}
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

func (s *FileStorage) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *FileStorage) Save(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path(key), value, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *FileStorage) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// MemoryStorage is an in-process [Storage]. Copies are made on the way in and out.
type MemoryStorage struct {
	mu     sync.Mutex
	values map[string][]byte

	// SaveErr, when set, is returned by Save and Remove.
	SaveErr error
}

// NewMemoryStorage creates an empty [MemoryStorage].
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: map[string][]byte{}}
}

func (s *MemoryStorage) Load(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStorage) Save(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	delete(s.values, key)
	return nil
}
