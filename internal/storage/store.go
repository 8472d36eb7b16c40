package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Well-known keys persisted by the client.
const (
	KeyToken    = "token"
	KeyUser     = "current_user"
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// FileStore is a small JSON key-value store backing the client's durable
// state (auth token, cached user, cart snapshot, wishlist). Writes are
// atomic (write-tmp-then-rename); reads silently degrade to "absent" on
// any error so a corrupted file looks like a fresh install.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  *logrus.Logger
}

func NewFileStore(dir string, logger *logrus.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("state directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &FileStore{
		path: filepath.Join(dir, "state.json"),
		log:  logger,
	}, nil
}

// Get returns the raw value for key, or false if the key is absent or the
// state file is unreadable.
func (s *FileStore) Get(key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	val, ok := state[key]
	return val, ok
}

// GetJSON decodes the value for key into out. A missing key or a decode
// failure both report false.
func (s *FileStore) GetJSON(key string, out interface{}) bool {
	raw, ok := s.Get(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.log.Warnf("Storage: failed to decode cached value for key %q: %v", key, err)
		return false
	}
	return true
}

// Set persists the raw value under key, overwriting any previous value.
func (s *FileStore) Set(key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	state[key] = value
	return s.save(state)
}

// SetJSON marshals value and persists it under key.
func (s *FileStore) SetJSON(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %q: %w", key, err)
	}
	return s.Set(key, raw)
}

// Delete removes key. Deleting an absent key is not an error.
func (s *FileStore) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	for _, key := range keys {
		delete(state, key)
	}
	return s.save(state)
}

func (s *FileStore) load() map[string]json.RawMessage {
	state := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warnf("Storage: failed to read state file %s: %v", s.path, err)
		}
		return state
	}
	if err := json.Unmarshal(data, &state); err != nil {
		s.log.Warnf("Storage: state file %s is corrupted, treating as empty: %v", s.path, err)
		return make(map[string]json.RawMessage)
	}
	return state
}

func (s *FileStore) save(state map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	data = append(data, '\n')
	return s.writeAtomic(data)
}

// writeAtomic writes data to a temp file, fsyncs it, and renames it over
// the state file. On any error the temp file is cleaned up.
func (s *FileStore) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}

	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write temp state file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to fsync temp state file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
