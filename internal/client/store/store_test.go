package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetUnsetReturnsEmpty(t *testing.T) {
	s := openTestStore(t)

	value, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, "", value)
}

func TestSetOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "one"))
	require.NoError(t, s.Set(ctx, "k", "two"))

	value, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", value)
}

func TestTokenRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "abc123"))
	token, err := s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	require.NoError(t, s.SetToken(ctx, ""))
	token, err = s.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", token)
}

func TestServerURLRoundtrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetServerURL(ctx, "http://localhost:9999"))
	u, err := s.ServerURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", u)
}
