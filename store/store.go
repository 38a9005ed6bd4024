package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jonhoo/hanabot/session"
)

// SessionStore persists the entire session state -- every running game
// included, card by card and clue by clue -- so that a crash-and-resume
// reproduces it exactly.
type SessionStore interface {
	// Load returns the saved session, or nil if none has been saved yet
	Load() (*session.Session, error)
	Save(*session.Session) error
}

// FileStore keeps the session in a single JSON file
type FileStore struct {
	Path string
}

// NewFileStore constructs a FileStore writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load() (*session.Session, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	sess := session.New()
	if err := json.Unmarshal(data, sess); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.Path, err)
	}
	return sess, nil
}

func (s *FileStore) Save(sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("serialize session state: %w", err)
	}

	// write-then-rename so a crash mid-save can't destroy the old snapshot
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path, err)
	}
	return nil
}
