// Package session keeps the signed-in user between runs and answers the
// identity questions the rest of the client needs. A Session is always
// passed explicitly; nothing reads it from a global.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"sportzone-cli/config"
	"sportzone-cli/model"
)

var (
	ErrNotLoggedIn = errors.New("not logged in")
	ErrExpired     = errors.New("session expired, please log in again")
	ErrForbidden   = errors.New("your account is not allowed to do this")
)

const fileName = "session.json"

type Session struct {
	User    model.User `json:"user"`
	Token   string     `json:"token,omitempty"`
	SavedAt time.Time  `json:"saved_at"`
}

// FromLogin builds a session out of the user record the login endpoint returns.
func FromLogin(user model.User) Session {
	token := user.Token
	user.Token = ""
	user.Password = ""
	return Session{User: user, Token: token, SavedAt: time.Now()}
}

// WithUser returns a copy holding an updated user record. The token is kept
// unless the record carries a new one.
func (s Session) WithUser(user model.User) Session {
	if user.Token != "" {
		s.Token = user.Token
	}
	user.Token = ""
	user.Password = ""
	s.User = user
	return s
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.User.Id != 0
}

func (s *Session) UserID() int64 {
	if s == nil {
		return 0
	}
	return s.User.Id
}

// BearerToken returns the token to send, or "" when there is none.
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.Token)
}

// ExpiresAt reads the exp claim of the token without verifying it; the API
// verifies signatures. ok is false when the token has no readable expiry.
func (s *Session) ExpiresAt() (time.Time, bool) {
	token := s.BearerToken()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case json.Number:
		v, err := exp.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(v, 0), true
	default:
		return time.Time{}, false
	}
}

func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

// Require checks that the session is usable and, when roles are given, that
// the user holds one of them.
func (s *Session) Require(now time.Time, roles ...model.Role) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if s.Expired(now) {
		return ErrExpired
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if s.User.Role.Is(role) {
			return nil
		}
	}
	return fmt.Errorf("%w (role %s)", ErrForbidden, s.User.Role)
}

// Load reads the saved session. A missing file yields (nil, nil).
func Load() (*Session, error) {
	path, err := config.ConfigPath(fileName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.New("invalid session file")
	}
	if !s.LoggedIn() {
		return nil, nil
	}
	return &s, nil
}

func Save(s Session) error {
	path, err := config.ConfigPath(fileName)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	payload, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func Clear() error {
	path, err := config.ConfigPath(fileName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
