// Package snapshot persists stage output documents as JSON files so
// each pipeline stage can also run standalone.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

// Store writes and reads document snapshots under a single directory.
type Store struct {
	dir string
}

var _ ports.SnapshotStore = (*Store)(nil)

func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Save writes the document atomically: marshal to a temp file in the
// same directory, then rename over the target.
func (s *Store) Save(name string, doc domain.Document) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir %s: %w", s.dir, err)
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", name, err)
	}
	payload = append(payload, '\n')

	tmp, err := os.CreateTemp(s.dir, name+".*")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace snapshot %s: %w", name, err)
	}
	return nil
}

// Load reads a snapshot back. Missing files surface the underlying
// fs.ErrNotExist so callers can treat absence as "stage not run yet".
func (s *Store) Load(name string) (domain.Document, error) {
	payload, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return domain.Document{}, fmt.Errorf("read snapshot %s: %w", name, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("parse snapshot %s: %w", name, err)
	}
	return doc, nil
}
