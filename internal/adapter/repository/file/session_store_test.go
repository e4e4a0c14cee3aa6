package file

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/logiadmin/internal/domain"
)

func testState() *domain.PersistedState {
	now := time.UnixMilli(1_700_000_000_000)
	return &domain.PersistedState{
		Session: &domain.Session{
			Identity:     domain.Identity{UserID: 4, DisplayName: "Driver", Role: domain.RoleCourier},
			AccessToken:  "a",
			RefreshToken: "r",
			TokenExpiry:  now.Add(time.Hour),
			LastActivity: now,
		},
		RedirectAfterLogin: "/admin/transport",
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	empty, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, empty.Session)
	assert.False(t, empty.Incomplete)

	require.NoError(t, store.Save(ctx, testState()))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded.Session)
	assert.Equal(t, int64(4), loaded.Session.Identity.UserID)
	assert.Equal(t, "/admin/transport", loaded.RedirectAfterLogin)

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".session-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files are cleaned up")
}

func TestSessionStoreSaveReplacesRecord(t *testing.T) {
	store, err := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testState()))
	require.NoError(t, store.Save(ctx, &domain.PersistedState{RedirectAfterLogin: "/admin"}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded.Session)
	assert.Equal(t, "/admin", loaded.RedirectAfterLogin)
}

func TestSessionStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx), "clearing a missing file is fine")
	require.NoError(t, store.Save(ctx, testState()))
	require.NoError(t, store.Clear(ctx))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSessionStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store, err := NewSessionStore(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err = store.Load(context.Background())
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"version":9,"entries":{}}`), 0o600))
	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("HOME", "/home/kim")

	path, err := DefaultPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/kim", ".logiadmin", "default", "session.json"), path)

	path, err = DefaultPath("prod")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/kim", ".logiadmin", "prod", "session.json"), path)
}
