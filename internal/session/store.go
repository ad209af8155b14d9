// Package session persists the dashboard login session across CLI
// invocations. The token and user profile are written to two independent
// sinks so the session survives one of them being unavailable; reads
// prefer the primary sink and fall back to the secondary.
package session

import (
	"encoding/json"
	"log/slog"
)

// Fixed key names shared by both sinks.
const (
	TokenKey = "paytrack_token"
	UserKey  = "paytrack_user"
)

// User is the tenant profile returned by the auth endpoints.
type User struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session is the persisted authentication state.
type Session struct {
	Token string
	User  *User
}

// Sink is one fallible backing store for session data. Implementations
// must treat missing keys as empty values, not errors.
type Sink interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// Store writes session state through to every sink and reads with
// primary-first fallback. Every operation is best-effort: sink failures
// are logged at debug level and swallowed, since losing persisted session
// data only means the user is logged out.
type Store struct {
	primary   Sink
	secondary Sink
	logger    *slog.Logger
}

// NewStore creates a store over a primary and secondary sink. The logger
// may be nil.
func NewStore(primary, secondary Sink, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{primary: primary, secondary: secondary, logger: logger}
}

// SaveToken writes the token to both sinks.
func (s *Store) SaveToken(token string) {
	s.set(TokenKey, token)
}

// SaveUser writes the serialized user profile to both sinks.
func (s *Store) SaveUser(user *User) {
	if user == nil {
		return
	}
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Debug("session: marshal user failed", "error", err)
		return
	}
	s.set(UserKey, string(raw))
}

// Load reads the persisted session. A missing or unreadable token yields
// an empty session; a malformed user record is dropped while keeping the
// token.
func (s *Store) Load() Session {
	sess := Session{Token: s.get(TokenKey)}
	if raw := s.get(UserKey); raw != "" {
		var u User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Debug("session: unmarshal user failed", "error", err)
		} else {
			sess.User = &u
		}
	}
	return sess
}

// Clear removes the session from both sinks.
func (s *Store) Clear() {
	for _, key := range []string{TokenKey, UserKey} {
		if err := s.primary.Delete(key); err != nil {
			s.logger.Debug("session: primary delete failed", "key", key, "error", err)
		}
		if err := s.secondary.Delete(key); err != nil {
			s.logger.Debug("session: secondary delete failed", "key", key, "error", err)
		}
	}
}

func (s *Store) set(key, value string) {
	if err := s.primary.Set(key, value); err != nil {
		s.logger.Debug("session: primary write failed", "key", key, "error", err)
	}
	if err := s.secondary.Set(key, value); err != nil {
		s.logger.Debug("session: secondary write failed", "key", key, "error", err)
	}
}

func (s *Store) get(key string) string {
	if v, err := s.primary.Get(key); err == nil && v != "" {
		return v
	} else if err != nil {
		s.logger.Debug("session: primary read failed", "key", key, "error", err)
	}
	v, err := s.secondary.Get(key)
	if err != nil {
		s.logger.Debug("session: secondary read failed", "key", key, "error", err)
		return ""
	}
	return v
}
