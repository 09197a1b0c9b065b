// Package cache provides the local key-value mirror used for cart
// persistence, catalog mirroring, and the owner session token. It is a flat
// namespace with no TTL, no size bound, and no eviction.
package cache

import (
	"encoding/json"

	"github.com/go-faster/errors"
)

// ErrMiss is returned by Get when the key has no value.
var ErrMiss = errors.New("cache miss")

// Store is a synchronous durable key-value map.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// GetJSON reads a key and unmarshals it into out.
func GetJSON(s Store, key string, out any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "unmarshal %q", key)
	}
	return nil
}

// SetJSON marshals v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %q", key)
	}
	return s.Set(key, data)
}
