// Package httpclient provides composable http.RoundTripper middleware for
// outgoing requests: request ID injection and request logging.
package httpclient

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps an http.RoundTripper with additional behaviour.
type Middleware func(http.RoundTripper) http.RoundTripper

// roundTripperFunc adapts a function to http.RoundTripper.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Wrap applies middlewares to rt. The first middleware is the outermost:
// Wrap(rt, a, b) runs a, then b, then rt.
func Wrap(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// RequestID returns a middleware that sets a fresh UUID v4 X-Request-ID
// header on every outgoing request that does not already carry one, so
// server-side logs can be correlated with client operations.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("X-Request-ID") == "" {
				r = r.Clone(r.Context())
				r.Header.Set("X-Request-ID", uuid.New().String())
			}
			return next.RoundTrip(r)
		})
	}
}

// LogRequests returns a middleware that logs each outgoing request with its
// method, URL, status and duration. Transport errors are logged at error
// level; everything else at debug.
func LogRequests(lg *zap.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start)

			if err != nil {
				lg.Error("Request failed",
					zap.String("method", r.Method),
					zap.String("url", r.URL.String()),
					zap.Duration("duration", elapsed),
					zap.Error(err),
				)
				return nil, err
			}

			lg.Debug("Request",
				zap.String("method", r.Method),
				zap.String("url", r.URL.String()),
				zap.Int("status", resp.StatusCode),
				zap.Duration("duration", elapsed),
			)
			return resp, nil
		})
	}
}
