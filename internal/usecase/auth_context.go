package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// AuthContextDeps collects everything needed to build an AuthContext.
type AuthContextDeps struct {
	Auth        AuthGateway
	Menus       MenuGateway
	Sessions    SessionStore
	Permissions PermissionStore
	Expiry      TokenExpiry
	Clock       Clock

	Session       SessionConfig
	Guard         GuardConfig
	PermissionTTL time.Duration

	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// AuthContext owns the session engine of one console client. Surfaces
// receive it by injection; there is no package level state.
type AuthContext struct {
	Sessions      *SessionUseCase
	Impersonation *ImpersonationUseCase
	Menus         *MenuUseCase
	Permissions   *PermissionUseCase
	Guard         *GuardUseCase

	logger zerolog.Logger
}

// NewAuthContext wires the use cases together.
func NewAuthContext(deps AuthContextDeps) *AuthContext {
	sessions := NewSessionUseCase(deps.Auth, deps.Sessions, deps.Expiry, deps.Clock, deps.Session, deps.Logger, deps.Metrics)
	menus := NewMenuUseCase(sessions, deps.Menus, deps.Logger, deps.Metrics)
	permissions := NewPermissionUseCase(sessions, deps.Menus, deps.Permissions, deps.Clock, deps.PermissionTTL, deps.Logger, deps.Metrics)
	impersonation := NewImpersonationUseCase(sessions, deps.Auth, deps.Clock, deps.Logger, deps.Metrics)
	guard := NewGuardUseCase(sessions, menus, permissions, deps.Guard, deps.Logger, deps.Metrics)

	ac := &AuthContext{
		Sessions:      sessions,
		Impersonation: impersonation,
		Menus:         menus,
		Permissions:   permissions,
		Guard:         guard,
		logger:        deps.Logger.With().Str("component", "auth_context").Logger(),
	}

	sessions.OnIdentityChange(ac.identityChanged)
	menus.OnTreeLoaded(permissions.Seed)

	return ac
}

func (ac *AuthContext) identityChanged(ctx context.Context, previous, next *domain.Identity) {
	ac.Menus.Invalidate()
	if err := ac.Permissions.Invalidate(ctx); err != nil {
		ac.logger.Warn().Err(err).Msg("failed to invalidate permission cache")
	}

	ev := ac.logger.Debug()
	if previous != nil {
		ev = ev.Int64("previous_user_id", previous.UserID)
	}
	if next != nil {
		ev = ev.Int64("user_id", next.UserID)
	}
	ev.Msg("identity changed, caches invalidated")
}

// RefreshPermissions drops both caches and reloads the menu tree.
func (ac *AuthContext) RefreshPermissions(ctx context.Context) (*domain.MenuTree, error) {
	ac.Menus.Invalidate()
	if err := ac.Permissions.Invalidate(ctx); err != nil {
		return nil, err
	}
	return ac.Menus.LoadTree(ctx, true)
}

// Close waits for background work to finish.
func (ac *AuthContext) Close() {
	ac.Sessions.WaitBackground()
}
