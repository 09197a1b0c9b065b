// Package rest implements the storefront backend API client: product catalog
// CRUD, order lifecycle, and owner login. It is the single remote boundary;
// connectivity failures surface as product.ErrUnavailable so callers can
// fall back to the local cache.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/sony/gobreaker/v2"

	"github.com/muhammadbaswan81-glitch/KamilaJayaPerkasa/internal/domain/product"
)

// TokenSource supplies the bearer token for authenticated requests. An empty
// token means no session; the request is sent unauthenticated and the server
// decides whether to reject it.
type TokenSource interface {
	Token() string
}

// StatusError is returned for HTTP responses outside the 2xx range.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, e.g. "http://localhost:5000".
	BaseURL string
	// Tokens supplies bearer tokens for authenticated calls. Optional.
	Tokens TokenSource
	// Transport is the underlying round tripper. Defaults to
	// http.DefaultTransport; wrap it with otelhttp and pkg/httpclient
	// middleware at the wiring layer.
	Transport http.RoundTripper
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
	// BreakerFailures is the consecutive-failure count that opens the
	// circuit. Zero means 5.
	BreakerFailures uint32
	// BreakerTimeout is how long the circuit stays open before probing
	// again. Zero means 30s.
	BreakerTimeout time.Duration
}

// response carries an HTTP result through the circuit breaker. Only
// transport-level failures count against the breaker; a served error status
// is still a served response.
type response struct {
	status int
	body   []byte
}

// Client talks to the storefront backend. It carries no retry logic: each
// call maps to exactly one request, and retry policy belongs to the caller.
type Client struct {
	base    string
	http    *http.Client
	tokens  TokenSource
	breaker *gobreaker.CircuitBreaker[response]
}

// NewClient builds a Client from opts.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout == 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:    "storefront-api",
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
	})

	return &Client{
		base: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Transport: opts.Transport,
			Timeout:   opts.Timeout,
		},
		tokens:  opts.Tokens,
		breaker: breaker,
	}
}

// do performs one request. body and out may be nil. When authed is true and
// a token is available, it is attached as a bearer Authorization header.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.breaker.Execute(func() (response, error) {
		httpResp, err := c.http.Do(req)
		if err != nil {
			return response{}, err
		}
		defer httpResp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 10<<20))
		if err != nil {
			return response{}, err
		}
		return response{status: httpResp.StatusCode, body: raw}, nil
	})
	if err != nil {
		// Open circuit and transport failures alike mean the backend is
		// unreachable from the caller's point of view.
		return errors.Wrapf(product.ErrUnavailable, "%s %s: %s", method, path, err)
	}

	if resp.status < 200 || resp.status >= 300 {
		return &StatusError{Code: resp.status, Body: string(resp.body)}
	}

	if out != nil && len(resp.body) > 0 {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return errors.Wrapf(err, "decode %s %s response", method, path)
		}
	}
	return nil
}
