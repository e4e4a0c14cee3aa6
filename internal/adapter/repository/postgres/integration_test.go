package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
	pginfra "github.com/iho/logiadmin/internal/infrastructure/postgres"
)

// newIntegrationDB connects to DATABASE_URL and applies the embedded
// migrations. The test is skipped when no database is configured.
func newIntegrationDB(t *testing.T) DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := pginfra.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, dbURL, 4, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func TestIntegrationSessionStore(t *testing.T) {
	db := newIntegrationDB(t)
	ctx := context.Background()
	profile := "it-" + t.Name()

	store := NewSessionStore(db, NewTxManager(db, NewRetrier(zerolog.Nop())), profile)
	t.Cleanup(func() { _ = store.Clear(context.Background()) })

	now := time.UnixMilli(time.Now().UnixMilli())
	state := &domain.PersistedState{
		Session: &domain.Session{
			Identity:     domain.Identity{UserID: 9, DisplayName: "Int", Role: domain.RoleCourier},
			AccessToken:  "a",
			RefreshToken: "r",
			TokenExpiry:  now.Add(time.Hour),
			LastActivity: now,
		},
		RedirectAfterLogin: "/admin/transport",
	}

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Session == nil || !loaded.Session.TokenExpiry.Equal(state.Session.TokenExpiry) {
		t.Fatalf("unexpected session %+v", loaded.Session)
	}

	if err := store.Save(ctx, &domain.PersistedState{}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err = store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Session != nil || loaded.RedirectAfterLogin != "" {
		t.Fatalf("expected empty record, got %+v", loaded)
	}
}

func TestIntegrationPermissionStore(t *testing.T) {
	db := newIntegrationDB(t)
	ctx := context.Background()
	profile := "it-" + t.Name()

	store := NewPermissionStore(db, NewRetrier(zerolog.Nop()), profile)
	t.Cleanup(func() { _ = store.Purge(context.Background()) })

	cachedAt := time.UnixMilli(time.Now().UnixMilli())
	entry := domain.PermissionEntry{UserID: 9, MenuID: 100, Auth: domain.MenuAuth{Read: true}, CachedAt: cachedAt}
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	entry.Auth.Write = true
	if err := store.Put(ctx, entry); err != nil {
		t.Fatalf("second put failed: %v", err)
	}

	got, err := store.Get(ctx, 9, 100)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got == nil || got.Auth != entry.Auth || !got.CachedAt.Equal(cachedAt) {
		t.Fatalf("unexpected entry %+v", got)
	}

	if err := store.Purge(ctx); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if got, _ := store.Get(ctx, 9, 100); got != nil {
		t.Fatalf("expected purge to remove entry")
	}
}
