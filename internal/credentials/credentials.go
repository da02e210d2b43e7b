// Package credentials persists the admin credential pair across runs. It is
// the only durable shared state in the client: the HTTP client reads it on
// every outbound request, and only login/logout/forced-invalidation write it.
package credentials

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Store interface {
	// Load returns the stored credential, or nil when none is stored.
	Load() (*Credential, error)

	// Save replaces the stored credential as a whole. The credential is
	// never observable in a half-written state.
	Save(cred *Credential) error

	// Clear removes the stored credential. Clearing an empty store is a no-op.
	Clear() error
}

// FileStore keeps the credential in a single JSON file under a well-known
// path, mode 0600.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*Credential, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: read %s: %w", s.path, err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("credentials: decode %s: %w", s.path, err)
	}
	return &cred, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so a crash mid-write leaves either the old credential or the new
// one, never a torn value.
func (s *FileStore) Save(cred *Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credentials: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("credentials: create temp: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credentials: write temp: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("credentials: chmod temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credentials: close temp: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("credentials: rename: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credentials: remove %s: %w", s.path, err)
	}
	return nil
}

// MemStore is an in-memory Store for tests and embedding programs that
// manage persistence themselves.
type MemStore struct {
	mu   sync.Mutex
	cred *Credential
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred == nil {
		return nil, nil
	}
	c := *s.cred
	return &c, nil
}

func (s *MemStore) Save(cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *cred
	s.cred = &c
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
