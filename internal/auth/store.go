package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists credentials as a JSON file, the console's stand-in for
// the browser session storage the web UI uses. It satisfies Source.
type FileStore struct {
	path  string
	cache *Credentials
}

// NewFileStore creates a store backed by the given path. The file is read
// lazily on first use.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Credentials returns the stored credentials, or nil when none are saved or
// the saved token has expired.
func (s *FileStore) Credentials() *Credentials {
	if s.cache != nil {
		return s.cache
	}
	creds, err := s.load()
	if err != nil {
		return nil
	}
	s.cache = creds
	return creds
}

// Save writes the credentials to disk with owner-only permissions.
func (s *FileStore) Save(creds Credentials) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	s.cache = &creds
	return nil
}

// Clear removes the stored session. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.cache = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *FileStore) load() (*Credentials, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}
	if creds.Token == "" {
		return nil, ErrNotLoggedIn
	}
	// An expired token is as good as no token.
	if _, err := UserFromToken(creds.Token); errors.Is(err, ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	return &creds, nil
}
