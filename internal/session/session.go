// Package session stores the client-side credentials (access token, username)
// behind a small get/set interface so the API client and the login flow never
// touch a concrete global.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Well-known keys.
const (
	KeyAccessToken = "accessToken"
	KeyUsername    = "username"
	KeyUserID      = "userID"
)

// EnvToken overrides the stored access token when set.
const EnvToken = "TODOTERM_TOKEN"

const credFileName = "credentials.json"

// Store is the persistent client-side storage capability. A missing key reads
// as the empty string; it is a valid, unauthenticated state, not an error.
type Store interface {
	Get(key string) string
	Set(key, value string) error
}

// FileStore keeps credentials in a JSON file under the state directory,
// owner-only permissions.
type FileStore struct {
	dir string

	mu sync.Mutex
}

// NewFileStore returns a store rooted at dir (created lazily with 0700).
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) path() string {
	return filepath.Join(s.dir, credFileName)
}

// Get returns the stored value for key, or "" when absent. The access token
// honors the TODOTERM_TOKEN env override.
func (s *FileStore) Get(key string) string {
	if key == KeyAccessToken {
		if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
			return StripBearer(env)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	creds, err := s.read()
	if err != nil {
		return ""
	}
	if key == KeyAccessToken {
		return StripBearer(creds[key])
	}
	return creds[key]
}

// Set persists value under key, creating the state dir on first write.
func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	if creds == nil {
		creds = map[string]string{}
	}
	creds[key] = value
	return s.write(creds)
}

// Delete removes key from the store. Missing file or key is fine.
func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := creds[key]; !ok {
		return nil
	}
	delete(creds, key)
	return s.write(creds)
}

// Clear removes the credentials file entirely (logout).
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *FileStore) read() (map[string]string, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var creds map[string]string
	if err := json.Unmarshal(b, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return creds, nil
}

func (s *FileStore) write(creds map[string]string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and ephemeral sessions.
type MemStore struct {
	mu   sync.Mutex
	vals map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{vals: map[string]string{}}
}

func (s *MemStore) Get(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vals[key]
}

func (s *MemStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[key] = value
	return nil
}

// StripBearer removes a leading "Bearer " prefix from a token value so it can
// be re-attached uniformly on outbound requests.
func StripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return strings.TrimSpace(s)
}
