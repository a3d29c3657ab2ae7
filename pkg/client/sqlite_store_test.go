package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "client.db")
	s := newTestSQLiteStore(t, path)

	_, err := s.Get(ctx, CredentialsKey)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, CredentialsKey, []byte("first")))
	require.NoError(t, s.Set(ctx, CredentialsKey, []byte("second")))

	got, err := s.Get(ctx, CredentialsKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	reopened := newTestSQLiteStore(t, path)
	got, err = reopened.Get(ctx, CredentialsKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	require.NoError(t, s.Delete(ctx, CredentialsKey))
	_, err = s.Get(ctx, CredentialsKey)
	require.ErrorIs(t, err, ErrKeyNotFound)
	require.NoError(t, s.Delete(ctx, CredentialsKey))
}

func TestClient_WithSQLiteStore(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t, filepath.Join(t.TempDir(), "client.db"))
	c, err := New("http://localhost:8080", s)
	require.NoError(t, err)

	creds := &Credentials{User: User{Name: "Jane Doe", Email: "jane@example.com"}, Token: "token"}
	require.NoError(t, c.Persist(ctx, creds))

	restored, err := c.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, creds.User.Email, restored.User.Email)
	assert.Equal(t, "token", restored.Token)

	require.NoError(t, c.Logout(ctx))
	_, err = c.Restore(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)
}
