// Package session persists the authenticated user between CLI runs, the
// way the browser client kept it in one local-storage key.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
	// Token is the bearer token a gateway may hand back on login. The
	// spreadsheet gateway issues none; the dev gateway issues a JWT.
	Token string `json:"token,omitempty"`
}

// ErrNotLoggedIn is returned when no session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Store reads and writes the single session file. An absent file means
// logged out; a corrupt file is treated the same way rather than failing
// startup.
type Store struct {
	path string
}

func NewStore(path string) *Store { return &Store{path: path} }

func (s *Store) Current() (User, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return User{}, ErrNotLoggedIn
		}
		return User{}, err
	}
	var u User
	if err := json.Unmarshal(b, &u); err != nil || u.ID == "" {
		return User{}, ErrNotLoggedIn
	}
	return u, nil
}

func (s *Store) Set(u User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o600)
}

// Clear logs out. There is no server-side invalidation to call.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
