package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"beautyconsult-backend/models"
)

const snapshotFile = "data.json"

var unsafeOwner = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// FileSnapshotStore keeps one data.json per owner under dir.
type FileSnapshotStore struct {
	dir string
}

func NewFileSnapshotStore(dir string) *FileSnapshotStore {
	return &FileSnapshotStore{dir: dir}
}

func (s *FileSnapshotStore) path(owner string) (string, error) {
	clean := unsafeOwner.ReplaceAllString(owner, "")
	if clean == "" {
		return "", fmt.Errorf("invalid snapshot owner %q", owner)
	}
	return filepath.Join(s.dir, clean, snapshotFile), nil
}

// Save overwrites the owner's snapshot. The write goes to a temp file first
// so a crash never leaves a truncated data.json.
func (s *FileSnapshotStore) Save(_ context.Context, owner string, snap models.LocalSnapshot) error {
	p, err := s.path(owner)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), snapshotFile+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

// Load returns nil, nil when the owner has never saved.
func (s *FileSnapshotStore) Load(_ context.Context, owner string) (*models.LocalSnapshot, error) {
	p, err := s.path(owner)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap models.LocalSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	return &snap, nil
}
