package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

// FakeClock is a manually advanced clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// FakeAuthGateway is a func-field implementation of AuthGateway. Unset
// funcs fail with ErrBackendUnavailable.
type FakeAuthGateway struct {
	mu    sync.Mutex
	calls map[string]int

	LoginFunc                    func(ctx context.Context, creds domain.Credentials) (*domain.TokenGrant, error)
	RefreshFunc                  func(ctx context.Context, refreshToken string) (*domain.RefreshGrant, error)
	LogoutFunc                   func(ctx context.Context, accessToken string, userID int64) error
	MeFunc                       func(ctx context.Context, accessToken string) (*domain.Identity, error)
	ImpersonateFunc              func(ctx context.Context, accessToken string, targetUserID int64) (*domain.TokenGrant, error)
	RevertImpersonationFunc      func(ctx context.Context, accessToken string) (*domain.TokenGrant, error)
	ListImpersonationTargetsFunc func(ctx context.Context, accessToken string, query usecase.TargetQuery) (*usecase.TargetPage, error)
}

func NewFakeAuthGateway() *FakeAuthGateway {
	return &FakeAuthGateway{calls: make(map[string]int)}
}

// Calls returns how often method was invoked.
func (f *FakeAuthGateway) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeAuthGateway) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *FakeAuthGateway) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenGrant, error) {
	f.record("Login")
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, creds)
	}
	return nil, domain.ErrBackendUnavailable
}

func (f *FakeAuthGateway) Refresh(ctx context.Context, refreshToken string) (*domain.RefreshGrant, error) {
	f.record("Refresh")
	if f.RefreshFunc != nil {
		return f.RefreshFunc(ctx, refreshToken)
	}
	return nil, domain.ErrBackendUnavailable
}

func (f *FakeAuthGateway) Logout(ctx context.Context, accessToken string, userID int64) error {
	f.record("Logout")
	if f.LogoutFunc != nil {
		return f.LogoutFunc(ctx, accessToken, userID)
	}
	return nil
}

func (f *FakeAuthGateway) Me(ctx context.Context, accessToken string) (*domain.Identity, error) {
	f.record("Me")
	if f.MeFunc != nil {
		return f.MeFunc(ctx, accessToken)
	}
	return nil, domain.ErrBackendUnavailable
}

func (f *FakeAuthGateway) Impersonate(ctx context.Context, accessToken string, targetUserID int64) (*domain.TokenGrant, error) {
	f.record("Impersonate")
	if f.ImpersonateFunc != nil {
		return f.ImpersonateFunc(ctx, accessToken, targetUserID)
	}
	return nil, domain.ErrBackendUnavailable
}

func (f *FakeAuthGateway) RevertImpersonation(ctx context.Context, accessToken string) (*domain.TokenGrant, error) {
	f.record("RevertImpersonation")
	if f.RevertImpersonationFunc != nil {
		return f.RevertImpersonationFunc(ctx, accessToken)
	}
	return nil, domain.ErrBackendUnavailable
}

func (f *FakeAuthGateway) ListImpersonationTargets(ctx context.Context, accessToken string, query usecase.TargetQuery) (*usecase.TargetPage, error) {
	f.record("ListImpersonationTargets")
	if f.ListImpersonationTargetsFunc != nil {
		return f.ListImpersonationTargetsFunc(ctx, accessToken, query)
	}
	return nil, domain.ErrBackendUnavailable
}

// FakeMenuGateway is a func-field implementation of MenuGateway. Without
// funcs it serves Menus and Auth and reports ErrNotFound for by-url lookups.
type FakeMenuGateway struct {
	mu    sync.Mutex
	calls map[string]int

	Menus []domain.MenuItem
	Auth  map[int64]domain.MenuAuth

	UserMenusFunc func(ctx context.Context, accessToken string, userID int64) ([]domain.MenuItem, error)
	MenuAuthFunc  func(ctx context.Context, accessToken string, userID, menuID int64) (domain.MenuAuth, error)
	MenuByURLFunc func(ctx context.Context, accessToken, url string) (*domain.MenuItem, error)
}

func NewFakeMenuGateway() *FakeMenuGateway {
	return &FakeMenuGateway{
		calls: make(map[string]int),
		Auth:  make(map[int64]domain.MenuAuth),
	}
}

// Calls returns how often method was invoked.
func (f *FakeMenuGateway) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *FakeMenuGateway) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[method]++
}

func (f *FakeMenuGateway) UserMenus(ctx context.Context, accessToken string, userID int64) ([]domain.MenuItem, error) {
	f.record("UserMenus")
	if f.UserMenusFunc != nil {
		return f.UserMenusFunc(ctx, accessToken, userID)
	}
	return f.Menus, nil
}

func (f *FakeMenuGateway) MenuAuth(ctx context.Context, accessToken string, userID, menuID int64) (domain.MenuAuth, error) {
	f.record("MenuAuth")
	if f.MenuAuthFunc != nil {
		return f.MenuAuthFunc(ctx, accessToken, userID, menuID)
	}
	if auth, ok := f.Auth[menuID]; ok {
		return auth, nil
	}
	return domain.MenuAuth{}, domain.ErrNotFound
}

func (f *FakeMenuGateway) MenuByURL(ctx context.Context, accessToken, url string) (*domain.MenuItem, error) {
	f.record("MenuByURL")
	if f.MenuByURLFunc != nil {
		return f.MenuByURLFunc(ctx, accessToken, url)
	}
	return nil, domain.ErrNotFound
}
