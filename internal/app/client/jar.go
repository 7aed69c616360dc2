package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"markd/internal/hub"
)

// FileStore keeps the credential envelope in a JSON file so the session
// survives between command invocations. It implements hub.CredentialStore.
type FileStore struct {
	path string

	mu      sync.Mutex
	access  string
	refresh string
}

type storedState struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// NewFileStore loads the envelope from path. A missing file is not an
// error, it simply means no session yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session state: %w", err)
	}

	var state storedState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse session state %s: %w", path, err)
	}
	s.access = state.AccessToken
	s.refresh = state.RefreshToken

	return s, nil
}

func (s *FileStore) ReadAll() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cookies []*http.Cookie
	if s.access != "" {
		cookies = append(cookies, &http.Cookie{Name: hub.AccessCookie, Value: s.access})
	}
	if s.refresh != "" {
		cookies = append(cookies, &http.Cookie{Name: hub.RefreshCookie, Value: s.refresh})
	}
	return cookies
}

// WriteAll applies the rotated envelope and persists it. A cookie with a
// negative MaxAge clears its slot.
func (s *FileStore) WriteAll(cookies []*http.Cookie) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cookies {
		value := c.Value
		if c.MaxAge < 0 {
			value = ""
		}
		switch c.Name {
		case hub.AccessCookie:
			s.access = value
		case hub.RefreshCookie:
			s.refresh = value
		}
	}

	if err := s.persist(); err != nil {
		// Keep the in-memory envelope usable even if the disk write failed.
		fmt.Fprintf(os.Stderr, "warning: cannot persist session: %v\n", err)
	}
}

// HasSession reports whether any part of an envelope is present.
func (s *FileStore) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access != "" || s.refresh != ""
}

func (s *FileStore) persist() error {
	state := storedState{AccessToken: s.access, RefreshToken: s.refresh}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
