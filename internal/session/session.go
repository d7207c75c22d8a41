// Package session keeps the signed-in user's token between runs when they
// ask to be remembered, and only in memory otherwise.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hy4ri/whiteboard-tui/internal/api"
	"github.com/zalando/go-keyring"
)

const (
	keyringService = "whiteboard-tui"
	keyringUser    = "session"
	credFileName   = ".session"
	emailFileName  = "remembered_email"
)

// Session is an authenticated identity.
type Session struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Store persists sessions. The zero value is not usable; use NewStore.
type Store struct {
	dir string

	mu      sync.Mutex
	current *Session
}

// NewStore returns a store that keeps file fallbacks in dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save makes s the current session. With remember set it is also written to
// the system keyring (or a private file when no keyring is available).
func (st *Store) Save(s Session, remember bool) error {
	if strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("failed to save session: token cannot be empty")
	}

	st.mu.Lock()
	st.current = &s
	st.mu.Unlock()

	if !remember {
		return st.clearPersisted()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := keyring.Set(keyringService, keyringUser, string(data)); err == nil {
		return nil
	}

	if err := os.WriteFile(st.path(credFileName), data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Load returns the current session: the in-memory one first, then a
// remembered one. It returns nil when nobody is signed in.
func (st *Store) Load() (*Session, error) {
	st.mu.Lock()
	if st.current != nil {
		s := *st.current
		st.mu.Unlock()
		return &s, nil
	}
	st.mu.Unlock()

	raw, err := keyring.Get(keyringService, keyringUser)
	if err != nil || raw == "" {
		data, ferr := os.ReadFile(st.path(credFileName))
		if ferr != nil {
			if os.IsNotExist(ferr) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read session file: %w", ferr)
		}
		raw = string(data)
	}

	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}

	st.mu.Lock()
	st.current = &s
	st.mu.Unlock()
	return &s, nil
}

// Clear signs out everywhere: memory, keyring and file.
func (st *Store) Clear() error {
	st.mu.Lock()
	st.current = nil
	st.mu.Unlock()
	return st.clearPersisted()
}

// UpdateUser replaces the cached user record of the current session, e.g.
// after a status change.
func (st *Store) UpdateUser(u api.User) {
	st.mu.Lock()
	if st.current != nil {
		st.current.User = u
	}
	st.mu.Unlock()
}

// RememberedEmail returns the email saved by the last remembered login.
func (st *Store) RememberedEmail() string {
	data, err := os.ReadFile(st.path(emailFileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetRememberedEmail saves email for the login form, or forgets it when
// email is empty.
func (st *Store) SetRememberedEmail(email string) error {
	path := st.path(emailFileName)
	email = strings.TrimSpace(email)
	if email == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to forget email: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(email), 0600); err != nil {
		return fmt.Errorf("failed to remember email: %w", err)
	}
	return nil
}

func (st *Store) clearPersisted() error {
	// Missing entries and missing keyrings are both fine here.
	_ = keyring.Delete(keyringService, keyringUser)
	if err := os.Remove(st.path(credFileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

func (st *Store) path(name string) string {
	return filepath.Join(st.dir, name)
}
