package rest

import (
	"context"
	"net/http"

	"github.com/go-faster/errors"
)

// ErrBadCredentials is returned by Login when the server rejects the
// username/password pair.
var ErrBadCredentials = errors.New("invalid username or password")

// Login exchanges owner credentials for a bearer token. The token is not
// stored by the client; session persistence belongs to internal/auth.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out, false)
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", errors.Wrap(err, "login")
	}
	if out.Token == "" {
		return "", errors.New("login response missing token")
	}
	return out.Token, nil
}
