package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.SessionStore = (*SessionStore)(nil)

// record is the on-disk layout. Version allows the layout to change
// without misreading older files.
type record struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

const recordVersion = 1

// SessionStore persists the session record as a JSON file readable only by
// the owner. Writes go to a temp file that is renamed over the old one.
type SessionStore struct {
	mu   sync.Mutex
	path string
}

// NewSessionStore creates a store writing to path. The parent directory is
// created with 0700 permissions.
func NewSessionStore(path string) (*SessionStore, error) {
	if path == "" {
		return nil, errors.New("session file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session directory: %w", err)
	}
	return &SessionStore{path: path}, nil
}

// DefaultPath returns ~/.logiadmin/<profile>/session.json.
func DefaultPath(profile string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if profile == "" {
		profile = "default"
	}
	return filepath.Join(home, ".logiadmin", profile, "session.json"), nil
}

// Path returns the file the store writes to.
func (s *SessionStore) Path() string {
	return s.path
}

// Load reads and decodes the file. A missing file is an empty state.
func (s *SessionStore) Load(_ context.Context) (*domain.PersistedState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.DecodePersistedState(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("session file version %d is not supported", rec.Version)
	}
	return domain.DecodePersistedState(rec.Entries)
}

// Save replaces the file with state.
func (s *SessionStore) Save(_ context.Context, state *domain.PersistedState) error {
	entries, err := state.Entries()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(record{Version: recordVersion, Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}

// Clear removes the file.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
