package client

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"orderdesk/internal/model"
)

// ErrNotLoggedIn is returned when an operation requires a session and none
// is present.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the client's view of the current identity: who is logged in
// and the tokens proving it. It is mutated only through the client's
// Login, Register and Logout operations and passed around explicitly;
// there is no ambient global auth state.
type Session struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	User         model.User `json:"user"`
}

// Active reports whether the session carries a token.
func (s *Session) Active() bool {
	return s != nil && s.Token != ""
}

// IsAdmin reports whether the logged-in user holds the admin role.
func (s *Session) IsAdmin() bool {
	return s.Active() && s.User.Role == model.RoleAdmin
}

// LoadSession reads a session from path. A missing file yields an empty,
// inactive session rather than an error.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Session{}, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes the session to path, creating parent directories as needed.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
