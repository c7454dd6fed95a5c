package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore is a JSON-file-backed Store used on platforms without a native
// registry. The whole document rewrites on every mutation; installer runs
// are short and values are few.
type FileStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]map[string]string
}

// NewFileStore creates a store persisted at the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() error {
	if s.loaded {
		return nil
	}
	s.data = make(map[string]map[string]string)
	s.loaded = true

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Corrupted file, start fresh.
		s.data = make(map[string]map[string]string)
	}
	return nil
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}

// Get returns the value stored under path/key.
func (s *FileStore) Get(path, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", err
	}
	ns, ok := s.data[normalize(path)]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotExist, path, key)
	}
	v, ok := ns[key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrNotExist, path, key)
	}
	return v, nil
}

// Set stores value under path/key.
func (s *FileStore) Set(path, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	p := normalize(path)
	if s.data[p] == nil {
		s.data[p] = make(map[string]string)
	}
	s.data[p][key] = value
	return s.save()
}

// Delete removes a single value.
func (s *FileStore) Delete(path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	ns, ok := s.data[normalize(path)]
	if !ok {
		return nil
	}
	delete(ns, key)
	return s.save()
}

// DeleteTree removes a namespace and everything below it.
func (s *FileStore) DeleteTree(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	p := normalize(path)
	for ns := range s.data {
		if ns == p || strings.HasPrefix(ns, p+"\\") {
			delete(s.data, ns)
		}
	}
	return s.save()
}

// normalize keeps namespace paths comparable whichever separator the caller
// used.
func normalize(path string) string {
	return strings.ReplaceAll(path, "/", "\\")
}
