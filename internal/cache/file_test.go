package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	s, err := OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte(`"hello"`)))

	got, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(got))
}

func TestFileStore_Miss(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	_, err = s.Get("absent")
	require.ErrorIs(t, err, ErrMiss)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("cart", []byte(`[{"id":1}]`)))

	reopened, err := OpenFile(path)
	require.NoError(t, err)

	got, err := reopened.Get("cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(got))
}

func TestFileStore_Delete(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set("k", []byte(`1`)))
	require.NoError(t, s.Delete("k"))

	_, err = s.Get("k")
	require.ErrorIs(t, err, ErrMiss)

	// Deleting again is a no-op.
	require.NoError(t, s.Delete("k"))
}

func TestJSONHelpers(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	type token struct {
		Value string `json:"value"`
	}
	require.NoError(t, SetJSON(s, "token", token{Value: "abc"}))

	var got token
	require.NoError(t, GetJSON(s, "token", &got))
	assert.Equal(t, "abc", got.Value)

	var missing token
	require.ErrorIs(t, GetJSON(s, "nope", &missing), ErrMiss)
}
