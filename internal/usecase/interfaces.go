package usecase

import (
	"context"
	"time"

	"github.com/iho/logiadmin/internal/domain"
)

// AuthGateway defines the authentication endpoints of the backend.
type AuthGateway interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.TokenGrant, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.RefreshGrant, error)
	Logout(ctx context.Context, accessToken string, userID int64) error
	Me(ctx context.Context, accessToken string) (*domain.Identity, error)
	Impersonate(ctx context.Context, accessToken string, targetUserID int64) (*domain.TokenGrant, error)
	RevertImpersonation(ctx context.Context, accessToken string) (*domain.TokenGrant, error)
	ListImpersonationTargets(ctx context.Context, accessToken string, query TargetQuery) (*TargetPage, error)
}

// MenuGateway defines the menu and permission endpoints of the backend.
type MenuGateway interface {
	UserMenus(ctx context.Context, accessToken string, userID int64) ([]domain.MenuItem, error)
	MenuAuth(ctx context.Context, accessToken string, userID, menuID int64) (domain.MenuAuth, error)
	// MenuByURL returns domain.ErrNotFound when no menu is routed at url.
	MenuByURL(ctx context.Context, accessToken, url string) (*domain.MenuItem, error)
}

// SessionStore persists the session state between process runs.
// Load returns an empty state when nothing is stored. Save replaces the
// whole record.
type SessionStore interface {
	Load(ctx context.Context) (*domain.PersistedState, error)
	Save(ctx context.Context, state *domain.PersistedState) error
	Clear(ctx context.Context) error
}

// PermissionStore caches per-menu auth entries of one user.
// Get returns (nil, nil) on a miss.
type PermissionStore interface {
	Get(ctx context.Context, userID, menuID int64) (*domain.PermissionEntry, error)
	Put(ctx context.Context, entry domain.PermissionEntry) error
	Purge(ctx context.Context) error
}

// TokenExpiry decides when a freshly issued access token expires.
type TokenExpiry interface {
	ExpiresAt(accessToken string, issuedAt time.Time) time.Time
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// TargetQuery filters the impersonation target list.
type TargetQuery struct {
	Keyword string
	Page    int
	Size    int
}

// ImpersonationTarget is a user an administrator may act as.
type ImpersonationTarget struct {
	UserID      int64
	LoginID     string
	DisplayName string
	Email       string
	Role        domain.Role
}

// TargetPage is one page of impersonation targets.
type TargetPage struct {
	Targets       []ImpersonationTarget
	TotalElements int
	TotalPages    int
}
