// Package storage provides the persistence backends: a file-based JSON
// snapshot store and a SQLite store (snapshots + pair registry).
package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tickflow/internal/domain"
)

// FileSnapshotStore persists one JSON document per snapshot key in a
// directory. Saves go through a write-temp-then-rename so a crashed
// write never leaves a partial document behind.
type FileSnapshotStore struct {
	baseDir string
}

// NewFileSnapshotStore creates the store, ensuring baseDir exists.
func NewFileSnapshotStore(baseDir string) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FileSnapshotStore{baseDir: baseDir}, nil
}

// keyToFilename maps a snapshot key to a stable, filesystem-safe name.
func keyToFilename(key string) string {
	r := strings.NewReplacer(
		"\\", "__",
		"/", "__",
		":", "_",
		" ", "_",
	)
	return r.Replace(key) + ".json"
}

func (s *FileSnapshotStore) pathForKey(key string) string {
	return filepath.Join(s.baseDir, keyToFilename(key))
}

// SaveSnapshot writes the snapshot under key, overwriting any prior
// document (last-write-wins).
func (s *FileSnapshotStore) SaveSnapshot(key string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	path := s.pathForKey(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}

	slog.Debug("State snapshot saved", slog.String("key", key), slog.String("path", path))
	return nil
}

// LoadSnapshot reads the snapshot for key. A missing file or an
// unreadable/corrupt document yields (nil, nil): no prior state is
// never an error.
func (s *FileSnapshotStore) LoadSnapshot(key string) (*domain.Snapshot, error) {
	path := s.pathForKey(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("Failed to read state snapshot", slog.String("key", key), slog.Any("error", err))
		}
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		slog.Warn("Failed to parse state snapshot", slog.String("key", key), slog.Any("error", err))
		return nil, nil
	}
	return &snap, nil
}

var _ domain.SnapshotStore = (*FileSnapshotStore)(nil)
