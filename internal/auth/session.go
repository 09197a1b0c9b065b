// Package auth manages the owner session: logging in against the backend
// and persisting the bearer token in the local cache so it survives
// restarts, the way the original storefront kept it in browser storage.
package auth

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/cache"
)

// tokenKey is the cache key holding the session token.
const tokenKey = "fashionacc_token"

// LoginClient performs the credential exchange against the backend.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Session holds the owner's bearer token, persisted to the local cache. It
// satisfies rest.TokenSource, so the API client picks up a login performed
// through the same cache immediately.
type Session struct {
	kv cache.Store
}

// NewSession restores the session persisted in the cache, if any.
func NewSession(kv cache.Store) *Session {
	return &Session{kv: kv}
}

// Login exchanges credentials for a token via api and persists it.
func (s *Session) Login(ctx context.Context, api LoginClient, username, password string) error {
	token, err := api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.kv.Set(tokenKey, []byte(token)); err != nil {
		return errors.Wrap(err, "persist session token")
	}
	return nil
}

// Logout drops the persisted token. Logging out without a session is a
// no-op.
func (s *Session) Logout() error {
	if err := s.kv.Delete(tokenKey); err != nil {
		return errors.Wrap(err, "remove session token")
	}
	return nil
}

// Token returns the current bearer token, or an empty string when no owner
// is logged in.
func (s *Session) Token() string {
	token, err := s.kv.Get(tokenKey)
	if err != nil {
		return ""
	}
	return string(token)
}

// LoggedIn reports whether an owner session is active.
func (s *Session) LoggedIn() bool {
	return s.Token() != ""
}
