package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// GuardConfig holds the console routes the guard redirects to.
type GuardConfig struct {
	LoginPath        string
	DashboardPath    string
	HomePath         string
	UnauthorizedPath string
	ProtectedPrefix  string
}

func (c GuardConfig) withDefaults() GuardConfig {
	if c.LoginPath == "" {
		c.LoginPath = "/login"
	}
	if c.DashboardPath == "" {
		c.DashboardPath = "/admin/dashboard"
	}
	if c.HomePath == "" {
		c.HomePath = "/"
	}
	if c.UnauthorizedPath == "" {
		c.UnauthorizedPath = "/unauthorized"
	}
	if c.ProtectedPrefix == "" {
		c.ProtectedPrefix = "/admin"
	}
	c.ProtectedPrefix = strings.TrimRight(c.ProtectedPrefix, "/")
	return c
}

// GuardUseCase decides whether a navigation may proceed.
type GuardUseCase struct {
	sessions    *SessionUseCase
	menus       *MenuUseCase
	permissions *PermissionUseCase
	cfg         GuardConfig
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewGuardUseCase creates a new guard use case.
func NewGuardUseCase(
	sessions *SessionUseCase,
	menus *MenuUseCase,
	permissions *PermissionUseCase,
	cfg GuardConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *GuardUseCase {
	return &GuardUseCase{
		sessions:    sessions,
		menus:       menus,
		permissions: permissions,
		cfg:         cfg.withDefaults(),
		logger:      logger.With().Str("component", "guard").Logger(),
		metrics:     m,
	}
}

// Config returns the effective route configuration.
func (uc *GuardUseCase) Config() GuardConfig {
	return uc.cfg
}

// Evaluate runs the guard for one navigation. It always returns a
// decision; failures inside the auth layer become redirects.
func (uc *GuardUseCase) Evaluate(ctx context.Context, nav domain.Navigation) domain.Decision {
	start := time.Now()
	nav = nav.Canonical()

	decision := uc.evaluate(ctx, nav)

	if uc.metrics != nil {
		uc.metrics.GuardDecisions.WithLabelValues(string(decision.Outcome), string(decision.Reason)).Inc()
		uc.metrics.GuardDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Debug().
		Str("path", nav.Path).
		Str("outcome", string(decision.Outcome)).
		Str("reason", string(decision.Reason)).
		Str("location", decision.Location).
		Msg("navigation evaluated")

	return decision
}

func (uc *GuardUseCase) evaluate(ctx context.Context, nav domain.Navigation) domain.Decision {
	if nav.Path == uc.cfg.LoginPath {
		return uc.evaluateLoginPage(ctx)
	}

	if !uc.isProtected(nav.Path) {
		return allow(domain.ReasonPublic)
	}

	if err := uc.sessions.RestoreAndVerify(ctx); err != nil {
		if !errors.Is(err, domain.ErrNotAuthenticated) {
			uc.logger.Info().Err(err).Str("path", nav.Path).Msg("session could not be verified")
		}
		return uc.redirectLogin(ctx, nav, domain.ReasonNoSession)
	}

	if uc.sessions.IsInactive() {
		uc.sessions.dropQuietly(ctx)
		return uc.redirectLogin(ctx, nav, domain.ReasonInactive)
	}

	switch {
	case uc.sessions.IsExpired():
		if err := uc.sessions.Refresh(ctx); err != nil {
			return uc.redirectLogin(ctx, nav, domain.ReasonRefreshFailed)
		}
	case uc.sessions.IsExpiringSoon():
		uc.sessions.RefreshInBackground()
	}

	identity, ok := uc.sessions.Identity()
	if !ok {
		return uc.redirectLogin(ctx, nav, domain.ReasonNoSession)
	}
	role := identity.Normalized().Role

	if role.IsEmpty() {
		uc.logger.Warn().Int64("user_id", identity.UserID).Msg("navigation blocked: no role assigned")
		return domain.Decision{
			Outcome:  domain.RedirectDashboard,
			Location: uc.cfg.HomePath,
			Message:  MissingRoleMessage,
			Reason:   domain.ReasonMissingRole,
		}
	}

	if role.IsFullAccess() {
		uc.touch(ctx)
		return allow(domain.ReasonFullAccess)
	}

	node, err := uc.menus.Resolve(ctx, nav.Path)
	if err != nil {
		uc.logger.Warn().Err(err).Str("path", nav.Path).Msg("menu resolution failed")
		return uc.unauthorized(domain.ReasonMenuLookupFailure)
	}

	// Routes without a menu entry are public inside the protected area.
	if node == nil {
		uc.touch(ctx)
		return allow(domain.ReasonUnmatchedRoute)
	}

	if !uc.permissions.Has(ctx, node.MenuID, domain.AuthRead) {
		return uc.unauthorized(domain.ReasonReadDenied)
	}

	uc.touch(ctx)
	return allow(domain.ReasonReadGranted)
}

func (uc *GuardUseCase) evaluateLoginPage(ctx context.Context) domain.Decision {
	if err := uc.sessions.RestoreAndVerify(ctx); err != nil {
		return allow(domain.ReasonLoginPage)
	}
	if uc.sessions.IsInactive() {
		uc.sessions.dropQuietly(ctx)
		return allow(domain.ReasonLoginPage)
	}
	return domain.Decision{
		Outcome:  domain.RedirectDashboard,
		Location: uc.cfg.DashboardPath,
		Reason:   domain.ReasonAlreadyLoggedIn,
	}
}

func (uc *GuardUseCase) isProtected(path string) bool {
	prefix := uc.cfg.ProtectedPrefix
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (uc *GuardUseCase) redirectLogin(ctx context.Context, nav domain.Navigation, reason domain.Reason) domain.Decision {
	if err := uc.sessions.SaveRedirect(ctx, nav.FullPath); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to remember redirect path")
	}
	return domain.Decision{
		Outcome:  domain.RedirectLogin,
		Location: uc.cfg.LoginPath,
		Reason:   reason,
	}
}

func (uc *GuardUseCase) unauthorized(reason domain.Reason) domain.Decision {
	return domain.Decision{
		Outcome:  domain.RedirectUnauthorized,
		Location: uc.cfg.UnauthorizedPath,
		Reason:   reason,
	}
}

func (uc *GuardUseCase) touch(ctx context.Context) {
	if err := uc.sessions.Touch(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to record activity")
	}
}

func allow(reason domain.Reason) domain.Decision {
	return domain.Decision{Outcome: domain.Allowed, Reason: reason}
}
