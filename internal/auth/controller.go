// Package auth owns the login session: who is signed in, their token,
// and the persisted copy of both. It is constructed once at startup
// and injected into every command; nothing else writes the session
// store.
package auth

import (
	"context"
	"log/slog"

	"github.com/paytrack/paytrackctl/internal/api"
	"github.com/paytrack/paytrackctl/internal/session"
)

// State is the controller's lifecycle position.
type State int

const (
	// StateLoading means the persisted session has not been hydrated yet.
	StateLoading State = iota
	// StateAnonymous means no token is held.
	StateAnonymous
	// StateAuthenticated means a token and user are present.
	StateAuthenticated
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the slice of the API client the controller needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.Credentials, error)
	Signup(ctx context.Context, name, email, password string) (*api.Credentials, error)
}

// Controller tracks the current session and is the sole writer of the
// persisted store. Login and signup failures propagate to the caller
// without touching existing state.
type Controller struct {
	store  *session.Store
	client Authenticator
	logger *slog.Logger

	state State
	token string
	user  *session.User
}

// NewController creates a controller in the loading state. Call Hydrate
// before reading session state.
func NewController(store *session.Store, client Authenticator, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{store: store, client: client, logger: logger, state: StateLoading}
}

// Hydrate loads the persisted session and settles into anonymous or
// authenticated.
func (c *Controller) Hydrate() {
	sess := c.store.Load()
	c.token = sess.Token
	c.user = sess.User
	if c.token != "" {
		c.state = StateAuthenticated
	} else {
		c.state = StateAnonymous
	}
	c.logger.Debug("session hydrated", "state", c.state.String())
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Token returns the current bearer token, or empty when anonymous.
func (c *Controller) Token() string {
	return c.token
}

// User returns the signed-in tenant profile, or nil.
func (c *Controller) User() *session.User {
	return c.user
}

// Login authenticates and, on success, persists and adopts the returned
// token and user.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	creds, err := c.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	c.adopt(creds)
	return nil
}

// Signup registers a new tenant and adopts the returned session.
func (c *Controller) Signup(ctx context.Context, name, email, password string) error {
	creds, err := c.client.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	c.adopt(creds)
	return nil
}

// Logout clears the persisted session and returns to anonymous. This is
// a local-only operation; no server round trip is made.
func (c *Controller) Logout() {
	c.store.Clear()
	c.token = ""
	c.user = nil
	c.state = StateAnonymous
}

func (c *Controller) adopt(creds *api.Credentials) {
	user := &session.User{ID: creds.User.ID, Name: creds.User.Name, Email: creds.User.Email}
	c.store.SaveToken(creds.AccessToken)
	c.store.SaveUser(user)
	c.token = creds.AccessToken
	c.user = user
	c.state = StateAuthenticated
}
