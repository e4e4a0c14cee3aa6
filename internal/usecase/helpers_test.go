package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iho/logiadmin/internal/adapter/repository/memory"
	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
	"github.com/iho/logiadmin/internal/usecase/mocks"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	admin   = domain.Identity{UserID: 1, LoginID: "admin", DisplayName: "Admin", Email: "admin@example.com", Role: domain.RoleSystemAdmin}
	manager = domain.Identity{UserID: 2, LoginID: "lp", DisplayName: "Lead", Email: "lp@example.com", Role: "LEAD_POWER"}
	site    = domain.Identity{UserID: 3, LoginID: "site", DisplayName: "Site", Email: "site@example.com", Role: domain.RoleSiteManager}
	courier = domain.Identity{UserID: 4, LoginID: "courier", DisplayName: "Courier", Email: "c@example.com", Role: "DRIVER"}
	noRole  = domain.Identity{UserID: 5, LoginID: "blank", DisplayName: "Blank", Email: "b@example.com"}
)

// fakeBackend issues opaque tokens and remembers which identity owns them.
type fakeBackend struct {
	mu       sync.Mutex
	seq      int
	users    map[int64]domain.Identity
	access   map[string]int64
	refresh  map[string]int64
	original map[string]int64 // impersonation access token -> admin id
}

func newFakeBackend(users ...domain.Identity) *fakeBackend {
	b := &fakeBackend{
		users:    make(map[int64]domain.Identity),
		access:   make(map[string]int64),
		refresh:  make(map[string]int64),
		original: make(map[string]int64),
	}
	for _, u := range users {
		b.users[u.UserID] = u
	}
	return b
}

func (b *fakeBackend) issue(userID int64) (string, string) {
	b.seq++
	access := fmt.Sprintf("access-%d", b.seq)
	refresh := fmt.Sprintf("refresh-%d", b.seq)
	b.access[access] = userID
	b.refresh[refresh] = userID
	return access, refresh
}

func (b *fakeBackend) identityFor(token string) (*domain.Identity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.access[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	u := b.users[id]
	return &u, nil
}

func (b *fakeBackend) revoke() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.access)
}

func (b *fakeBackend) setRole(userID int64, role domain.Role) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.users[userID]
	u.Role = role
	b.users[userID] = u
}

func (b *fakeBackend) install(auth *mocks.FakeAuthGateway) {
	auth.LoginFunc = func(_ context.Context, creds domain.Credentials) (*domain.TokenGrant, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, u := range b.users {
			if u.LoginID == creds.LoginID && creds.Password == "secret" {
				access, refresh := b.issue(u.UserID)
				return &domain.TokenGrant{Identity: u, AccessToken: access, RefreshToken: refresh}, nil
			}
		}
		return nil, domain.ErrUnauthorized
	}
	auth.MeFunc = func(_ context.Context, token string) (*domain.Identity, error) {
		return b.identityFor(token)
	}
	auth.RefreshFunc = func(_ context.Context, token string) (*domain.RefreshGrant, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		id, ok := b.refresh[token]
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		b.seq++
		access := fmt.Sprintf("access-%d", b.seq)
		b.access[access] = id
		return &domain.RefreshGrant{AccessToken: access}, nil
	}
	auth.ImpersonateFunc = func(_ context.Context, token string, target int64) (*domain.TokenGrant, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		adminID, ok := b.access[token]
		if !ok {
			return nil, domain.ErrUnauthorized
		}
		u, ok := b.users[target]
		if !ok {
			return nil, domain.ErrNotFound
		}
		access, refresh := b.issue(target)
		b.original[access] = adminID
		return &domain.TokenGrant{Identity: u, AccessToken: access, RefreshToken: refresh}, nil
	}
	auth.RevertImpersonationFunc = func(_ context.Context, token string) (*domain.TokenGrant, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		adminID, ok := b.original[token]
		if !ok {
			return nil, domain.ErrForbidden
		}
		access, refresh := b.issue(adminID)
		return &domain.TokenGrant{Identity: b.users[adminID], AccessToken: access, RefreshToken: refresh}, nil
	}
}

type fixture struct {
	clock   *mocks.FakeClock
	backend *fakeBackend
	auth    *mocks.FakeAuthGateway
	menus   *mocks.FakeMenuGateway
	store   *memory.SessionStore
	perms   *memory.PermissionStore
	ac      *usecase.AuthContext
}

type fixtureOption func(*usecase.AuthContextDeps)

func withLifetime(d time.Duration) fixtureOption {
	return func(deps *usecase.AuthContextDeps) {
		deps.Expiry = usecase.FixedTokenLifetime(d)
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		clock:   mocks.NewFakeClock(epoch),
		backend: newFakeBackend(admin, manager, site, courier, noRole),
		auth:    mocks.NewFakeAuthGateway(),
		menus:   mocks.NewFakeMenuGateway(),
		store:   memory.NewSessionStore(),
		perms:   memory.NewPermissionStore(),
	}
	f.backend.install(f.auth)

	deps := usecase.AuthContextDeps{
		Auth:        f.auth,
		Menus:       f.menus,
		Sessions:    f.store,
		Permissions: f.perms,
		Clock:       f.clock,
		Logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&deps)
	}

	f.ac = usecase.NewAuthContext(deps)
	t.Cleanup(f.ac.Close)

	return f
}

func (f *fixture) login(t *testing.T, who domain.Identity) *usecase.LoginResult {
	t.Helper()
	res, err := f.ac.Sessions.Login(context.Background(), domain.Credentials{LoginID: who.LoginID, Password: "secret"})
	require.NoError(t, err)
	return res
}

func (f *fixture) identity(t *testing.T) domain.Identity {
	t.Helper()
	identity, ok := f.ac.Sessions.Identity()
	require.True(t, ok, "expected an active session")
	return identity
}

func ordersMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{
			MenuID: 100, Code: "ORDER", Name: "Orders", URL: "/admin/orders",
			Children: []domain.MenuItem{
				{MenuID: 101, Code: "ORDER_LIST", Name: "Order list", URL: "/admin/orders/list", ParentID: 100},
			},
		},
		{MenuID: 200, Code: "FUND", Name: "Funds", URL: "/admin/funds"},
	}
}
