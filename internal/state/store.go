package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/appcomposer/internal/fsops"
)

// StateStore persists sessions.
type StateStore interface {
	// LoadSession loads the session with the given ID.
	// Returns os.ErrNotExist if the session doesn't exist.
	LoadSession(id string) (*SessionState, error)

	// SaveSession saves the session atomically.
	SaveSession(id string, state *SessionState) error

	// DeleteSession deletes the session file. Deleting a missing session
	// is not an error.
	DeleteSession(id string) error

	// ListSessions returns the IDs of all stored sessions, sorted.
	ListSessions() ([]string, error)
}

// FileStateStore implements StateStore using JSON files on disk.
type FileStateStore struct {
	fs          fsops.FS
	sessionsDir string
}

// NewFileStateStore creates a new FileStateStore.
func NewFileStateStore(fs fsops.FS, sessionsDir string) *FileStateStore {
	return &FileStateStore{
		fs:          fs,
		sessionsDir: sessionsDir,
	}
}

func (s *FileStateStore) path(id string) (string, error) {
	if err := s.fs.ValidateIdentifier(id); err != nil {
		return "", fmt.Errorf("invalid session ID: %w", err)
	}
	return filepath.Join(s.sessionsDir, id+".json"), nil
}

func (s *FileStateStore) LoadSession(id string) (*SessionState, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if state.SchemaVersion > SchemaVersion {
		return nil, fmt.Errorf("session %s uses schema version %d, newer than supported %d",
			ShortID(id), state.SchemaVersion, SchemaVersion)
	}

	return &state, nil
}

func (s *FileStateStore) SaveSession(id string, state *SessionState) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *FileStateStore) DeleteSession(id string) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *FileStateStore) ListSessions() ([]string, error) {
	names, err := s.fs.ListFiles(s.sessionsDir, ".json")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ids := make([]string, 0, len(names))
	for _, name := range names {
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}
