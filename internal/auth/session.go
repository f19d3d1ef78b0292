// internal/auth/session.go
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name for keyring storage
	KeyringService = "leadcrawl"
	// FallbackDir is the directory for file-based session storage (when keyring fails)
	FallbackDir = ".leadcrawl/sessions"

	sessionKeyPrefix = "session:"
	manifestKey      = "_manifest"
)

// ErrSessionExpired is returned when every cookie of a stored session has expired
var ErrSessionExpired = errors.New("session expired")

// useFileBasedStorage checks if we should use file-based storage
// This is a fallback for environments where keyring isn't available (containers, CI)
var fileBasedStorageCache *bool

func useFileBasedStorage() bool {
	if fileBasedStorageCache != nil {
		return *fileBasedStorageCache
	}

	if os.Getenv("CODESPACES") != "" || os.Getenv("CI") != "" {
		result := true
		fileBasedStorageCache = &result
		return true
	}

	// Try to use keyring, but if it fails, use file-based storage
	testKey := "_test_keyring_access_"
	err := keyring.Set(KeyringService, testKey, "test")
	result := (err != nil)
	fileBasedStorageCache = &result

	if !result {
		keyring.Delete(KeyringService, testKey)
	}

	return result
}

// SessionData is a signed-in LinkedIn browser state
type SessionData struct {
	Name      string    `json:"name"`
	Account   string    `json:"account,omitempty"`
	URL       string    `json:"url"`
	Cookies   []Cookie  `json:"cookies"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Cookie represents a browser cookie
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// NewSession builds a session whose expiry is the latest cookie expiry
func NewSession(name, url string, cookies []Cookie, now time.Time) *SessionData {
	session := &SessionData{
		Name:      name,
		URL:       url,
		Cookies:   cookies,
		CreatedAt: now,
	}

	maxExpires := 0.0
	for _, c := range cookies {
		if c.Expires > maxExpires {
			maxExpires = c.Expires
		}
	}
	if maxExpires > 0 {
		session.ExpiresAt = time.Unix(int64(maxExpires), 0)
	}
	return session
}

// Expired reports whether the session can no longer be used at now
func (s *SessionData) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Store persists sessions either in the OS keyring or as files in a directory
type Store struct {
	service string
	dir     string
	files   bool
}

// NewKeyringStore stores sessions in the OS keyring under service
func NewKeyringStore(service string) *Store {
	return &Store{service: service}
}

// NewFileStore stores sessions as JSON files in dir
func NewFileStore(dir string) *Store {
	return &Store{service: KeyringService, dir: dir, files: true}
}

// DefaultStore uses the keyring when it is reachable and ~/.leadcrawl/sessions otherwise
func DefaultStore() (*Store, error) {
	if !useFileBasedStorage() {
		return NewKeyringStore(KeyringService), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewFileStore(filepath.Join(home, FallbackDir)), nil
}

// Backend names the storage in use
func (st *Store) Backend() string {
	if st.files {
		return "file:" + st.dir
	}
	return "keyring"
}

func (st *Store) path(name string) (string, error) {
	if err := os.MkdirAll(st.dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(st.dir, name+".json"), nil
}

// Save stores a session, replacing any session of the same name
func (st *Store) Save(session *SessionData) error {
	if session.Name == "" {
		return fmt.Errorf("session name cannot be empty")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}

	if st.files {
		path, err := st.path(session.Name)
		if err != nil {
			return fmt.Errorf("failed to get session path: %w", err)
		}
		if err := os.WriteFile(path, data, 0600); err != nil {
			return fmt.Errorf("failed to save session file: %w", err)
		}
		return nil
	}

	if err := keyring.Set(st.service, sessionKeyPrefix+session.Name, string(data)); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}
	return st.updateManifest(session.Name, true)
}

// Load reads a session. Expired sessions are reported as ErrSessionExpired.
func (st *Store) Load(name string) (*SessionData, error) {
	if name == "" {
		return nil, fmt.Errorf("session name cannot be empty")
	}

	var data string
	if st.files {
		path, err := st.path(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get session path: %w", err)
		}
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load session file: %w", err)
		}
		data = string(fileData)
	} else {
		var err error
		data, err = keyring.Get(st.service, sessionKeyPrefix+name)
		if err != nil {
			return nil, fmt.Errorf("failed to load from keyring: %w", err)
		}
	}

	var session SessionData
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to deserialize session: %w", err)
	}

	if session.Expired(time.Now()) {
		return nil, fmt.Errorf("%s: %w", name, ErrSessionExpired)
	}

	return &session, nil
}

// Delete removes a session
func (st *Store) Delete(name string) error {
	if name == "" {
		return fmt.Errorf("session name cannot be empty")
	}

	if st.files {
		path, err := st.path(name)
		if err != nil {
			return fmt.Errorf("failed to get session path: %w", err)
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete session file: %w", err)
		}
		return nil
	}

	if err := keyring.Delete(st.service, sessionKeyPrefix+name); err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return st.updateManifest(name, false)
}

// List returns the names of all stored sessions
func (st *Store) List() ([]string, error) {
	if st.files {
		entries, err := os.ReadDir(st.dir)
		if err != nil {
			if os.IsNotExist(err) {
				return []string{}, nil
			}
			return nil, err
		}

		var sessions []string
		for _, entry := range entries {
			if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
				sessions = append(sessions, strings.TrimSuffix(entry.Name(), ".json"))
			}
		}
		return sessions, nil
	}

	// The keyring cannot be enumerated, so names live in a manifest entry
	manifestData, err := keyring.Get(st.service, manifestKey)
	if err != nil {
		return []string{}, nil
	}

	var sessions []string
	if err := json.Unmarshal([]byte(manifestData), &sessions); err != nil {
		return nil, fmt.Errorf("failed to deserialize manifest: %w", err)
	}
	return sessions, nil
}

// updateManifest adds or removes a session from the keyring manifest
func (st *Store) updateManifest(sessionName string, add bool) error {
	sessions, _ := st.List()

	kept := make([]string, 0, len(sessions)+1)
	for _, s := range sessions {
		if s != sessionName {
			kept = append(kept, s)
		}
	}
	if add {
		kept = append(kept, sessionName)
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return keyring.Set(st.service, manifestKey, string(data))
}
