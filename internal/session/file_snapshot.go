package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileSnapshot stores the session as a single JSON document on disk, the
// Go stand-in for the browser's local storage record.
type FileSnapshot struct {
	path string
}

// NewFileSnapshot builds a file-backed snapshot at the given path. Parent
// directories are created on first save.
func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

// Load reads and decodes the persisted session.
func (f *FileSnapshot) Load(_ context.Context) (Session, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, ErrNoSnapshot
		}
		return Session{}, fmt.Errorf("read snapshot: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, ErrCorruptSnapshot
	}
	if s.ID == "" {
		return Session{}, ErrCorruptSnapshot
	}
	return s, nil
}

// Save writes the session atomically: encode to a temp file in the same
// directory, then rename over the target so readers never observe a torn
// write.
func (f *FileSnapshot) Save(_ context.Context, s Session) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return fmt.Errorf("create snapshot temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Clear removes the snapshot file. A missing file is not an error.
func (f *FileSnapshot) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}
