package redis

import (
	"context"
	"testing"
	"time"

	"github.com/iho/logiadmin/internal/domain"
)

func testState() *domain.PersistedState {
	now := time.UnixMilli(1_700_000_000_000)
	admin := domain.Identity{UserID: 1, DisplayName: "Admin", Role: domain.RoleSystemAdmin}
	return &domain.PersistedState{
		Session: &domain.Session{
			Identity:     domain.Identity{UserID: 3, DisplayName: "Site", Role: domain.RoleSiteManager},
			AccessToken:  "a",
			RefreshToken: "r",
			TokenExpiry:  now.Add(time.Hour),
			LastActivity: now,
		},
		Impersonation: domain.ImpersonationSnapshot{Active: true, OriginalIdentity: &admin, StartedAt: now},
	}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewSessionStore(client, "ops")
	ctx := context.Background()

	if err := store.Save(ctx, testState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if got, err := mr.Get("logiadmin:ops:auth_access_token"); err != nil || got != "a" {
		t.Fatalf("expected access token under profile prefix, got %q err=%v", got, err)
	}

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state.Session == nil || state.Session.Identity.UserID != 3 {
		t.Fatalf("unexpected session %+v", state.Session)
	}
	if !state.Impersonation.Active || state.Impersonation.OriginalIdentity.UserID != 1 {
		t.Fatalf("unexpected impersonation %+v", state.Impersonation)
	}
}

func TestSessionStoreSaveRemovesAbsentKeys(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewSessionStore(client, "ops")
	ctx := context.Background()

	if err := store.Save(ctx, testState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Save(ctx, &domain.PersistedState{RedirectAfterLogin: "/admin/orders"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if mr.Exists("logiadmin:ops:auth_access_token") || mr.Exists("logiadmin:ops:auth_impersonation") {
		t.Fatal("expected stale keys to be removed")
	}

	state, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state.Session != nil || state.RedirectAfterLogin != "/admin/orders" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSessionStoreProfilesAreIsolated(t *testing.T) {
	client, _ := newTestRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	ops := NewSessionStore(client, "ops")
	dev := NewSessionStore(client, "dev")

	if err := ops.Save(ctx, testState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	state, err := dev.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if state.Session != nil {
		t.Fatal("profiles must not share a session")
	}

	if err := dev.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if state, _ := ops.Load(ctx); state.Session == nil {
		t.Fatal("clearing one profile must not touch another")
	}
}

func TestSessionStoreClear(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewSessionStore(client, "")
	ctx := context.Background()

	if err := store.Save(ctx, testState()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("expected no keys, got %v", keys)
	}
}

func TestSessionStoreConnectionError(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()

	store := NewSessionStore(client, "ops")
	mr.Close()

	if _, err := store.Load(context.Background()); err == nil {
		t.Fatal("expected error with redis down")
	}
}
