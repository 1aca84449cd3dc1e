// Package history is the bounded, persisted record of past analyses.
package history

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is the persistence port for the ledger: one named slot in a
// key-value text store, read once at startup and overwritten wholesale on
// every mutation.
type Store interface {
	// Load reads the slot. A missing slot returns (nil, nil).
	Load() ([]byte, error)

	// Save overwrites the slot with the full serialized ledger.
	Save(data []byte) error

	// Clear removes the slot.
	Clear() error
}

// FileStore persists the slot as a single JSON file on disk.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted slot. Absence is not an error.
func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return data, nil
}

// Save overwrites the slot. The write goes through a temp file and rename so
// a crash mid-write never leaves a truncated slot behind.
func (s *FileStore) Save(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close history: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Clear removes the slot. A missing slot is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove history: %w", err)
	}
	return nil
}

// MemStore is an in-memory store for tests.
type MemStore struct {
	data []byte
	set  bool

	// FailSave forces the next Save to fail, for rollback tests.
	FailSave bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Load returns the stored slot, or (nil, nil) when unset.
func (s *MemStore) Load() ([]byte, error) {
	if !s.set {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

// Save overwrites the slot.
func (s *MemStore) Save(data []byte) error {
	if s.FailSave {
		return fmt.Errorf("save failed")
	}
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}

// Clear removes the slot.
func (s *MemStore) Clear() error {
	s.data = nil
	s.set = false
	return nil
}
