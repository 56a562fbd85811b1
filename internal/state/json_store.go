package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const backendJSON = "json"

// JSONStore keeps all records in a single JSON document. Puts are buffered in
// memory until Flush or Close; deletes rewrite the document immediately. The
// document is always replaced atomically.
type JSONStore struct {
	path    string
	mu      sync.RWMutex
	records map[string]json.RawMessage
	dirty   bool
}

// NewJSONStore opens the store at path, creating parent directories. A
// missing file is an empty store.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, storeError(backendJSON, "open", err)
	}
	store := &JSONStore{path: path, records: make(map[string]json.RawMessage)}
	if err := store.loadFromDisk(); err != nil {
		return nil, storeError(backendJSON, "open", err)
	}
	return store, nil
}

func (s *JSONStore) loadFromDisk() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read state file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return nil
}

func (s *JSONStore) saveToDiskUnsafe() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary state file: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *JSONStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put implements Store. value must be a JSON document.
func (s *JSONStore) Put(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return storeError(backendJSON, "put", fmt.Errorf("value for %q is not valid JSON", key))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append(json.RawMessage(nil), value...)
	s.dirty = true
	return nil
}

// Flush implements Flusher by writing buffered puts to disk.
func (s *JSONStore) Flush(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := s.saveToDiskUnsafe(); err != nil {
		return storeError(backendJSON, "flush", err)
	}
	s.dirty = false
	return nil
}

// Delete implements Store.
func (s *JSONStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	if err := s.saveToDiskUnsafe(); err != nil {
		return storeError(backendJSON, "delete", err)
	}
	s.dirty = false
	return nil
}

// Keys implements Store.
func (s *JSONStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Backend implements Store.
func (s *JSONStore) Backend() string { return backendJSON }

// Close implements Store and flushes buffered puts.
func (s *JSONStore) Close() error {
	return s.Flush(context.Background())
}
