package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	tokenFile    = "token"
	usernameFile = "username"
)

// Store persists the session credentials as two files under dir.
//
// Reads go to disk on every call so concurrent processes observe each
// other's writes; last writer wins, which is accepted (each process
// rebuilds its session at startup only).
type Store struct {
	dir string
}

// NewStore creates a credential store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Token returns the persisted bearer token, or "" when logged out.
//
// Implements [services.TokenSource].
func (s *Store) Token() string {
	return s.read(tokenFile)
}

// Username returns the persisted username, or "".
func (s *Store) Username() string {
	return s.read(usernameFile)
}

// Save persists the token and username, replacing any previous values.
func (s *Store) Save(token, username string) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create credential directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, usernameFile), []byte(username), 0600); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	return nil
}

// Clear removes both persisted values. Missing files are not an error.
func (s *Store) Clear() {
	os.Remove(filepath.Join(s.dir, tokenFile))
	os.Remove(filepath.Join(s.dir, usernameFile))
}

func (s *Store) read(name string) string {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
