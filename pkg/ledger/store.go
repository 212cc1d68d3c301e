package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists ledger entries as a small JSON file.
type FileStore struct {
	Path string
}

// NewFileStore creates a store at the given path. The parent directory
// is created on first save.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the ledger file. A missing file is an empty ledger.
func (s *FileStore) Load() ([]Entry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", s.Path, err)
	}
	return entries, nil
}

// Save writes the full entry set.
func (s *FileStore) Save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0700); err != nil {
		return err
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(entries)
}

// MemStore keeps entries in memory. Used by tests and dry runs.
type MemStore struct {
	Entries []Entry
}

func (s *MemStore) Load() ([]Entry, error) {
	return append([]Entry(nil), s.Entries...), nil
}

func (s *MemStore) Save(entries []Entry) error {
	s.Entries = append([]Entry(nil), entries...)
	return nil
}
