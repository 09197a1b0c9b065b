package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

// FileStore is a Store backed by a single JSON file on disk. Every Set and
// Delete rewrites the file, so a crash between mutations can lose at most
// the in-flight write. Writes go to a temp file first and are renamed into
// place to avoid torn files.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// OpenFile loads the store at path, creating an empty one when the file
// does not exist yet.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{
		path: path,
		data: make(map[string]json.RawMessage),
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, errors.Wrap(err, "read cache file")
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, errors.Wrap(err, "decode cache file")
		}
	}
	return s, nil
}

// Get returns the value stored under key, or ErrMiss.
func (s *FileStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.data[key]
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key and flushes the store to disk.
func (s *FileStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := make(json.RawMessage, len(value))
	copy(v, value)
	s.data[key] = v
	return s.flushLocked()
}

// Delete removes key and flushes. Deleting an absent key is a no-op.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return errors.Wrap(err, "encode cache file")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create cache dir")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return errors.Wrap(err, "write cache file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace cache file")
	}
	return nil
}
