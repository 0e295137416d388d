// Package file stores each key as a JSON file in a directory, the closest
// server-side analogue of browser local storage.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/restaurant/storage-tracker/internal/core/domain"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// KeyValueStore writes <dir>/<key>.json. Writes go to a temp file that is
// renamed over the target so readers never see a partial document.
type KeyValueStore struct {
	dir string
	mu  sync.RWMutex
}

// NewKeyValueStore creates dir when missing.
func NewKeyValueStore(dir string) (*KeyValueStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &KeyValueStore{dir: dir}, nil
}

// OpenKeyValueStore uses dir as-is without creating it. Reads from a missing
// directory report domain.ErrKeyNotFound.
func OpenKeyValueStore(dir string) *KeyValueStore {
	return &KeyValueStore{dir: dir}
}

// Dir returns the storage directory.
func (s *KeyValueStore) Dir() string { return s.dir }

func (s *KeyValueStore) path(key string) (string, error) {
	if !validKey.MatchString(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *KeyValueStore) Get(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func (s *KeyValueStore) Set(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	temp := p + ".tmp"
	if err := os.WriteFile(temp, value, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(temp, p); err != nil {
		return fmt.Errorf("replace %s: %w", key, err)
	}
	return nil
}

func (s *KeyValueStore) Delete(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Ping checks the directory is still there.
func (s *KeyValueStore) Ping(context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
