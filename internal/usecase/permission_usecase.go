package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// PermissionUseCase answers CRUD permission questions for the acting user
// from a time-boxed cache of per-menu auth flags.
type PermissionUseCase struct {
	sessions *SessionUseCase
	gateway  MenuGateway
	store    PermissionStore
	clock    Clock
	ttl      time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	flights singleflight.Group
}

// NewPermissionUseCase creates a new permission use case. A non-positive
// ttl uses DefaultPermissionTTL.
func NewPermissionUseCase(
	sessions *SessionUseCase,
	gateway MenuGateway,
	store PermissionStore,
	clock Clock,
	ttl time.Duration,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *PermissionUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if ttl <= 0 {
		ttl = DefaultPermissionTTL
	}
	return &PermissionUseCase{
		sessions: sessions,
		gateway:  gateway,
		store:    store,
		clock:    clock,
		ttl:      ttl,
		logger:   logger.With().Str("component", "permission").Logger(),
		metrics:  m,
	}
}

// IsFullAccess reports whether the acting role bypasses menu checks.
func (uc *PermissionUseCase) IsFullAccess() bool {
	identity, ok := uc.sessions.Identity()
	return ok && identity.Normalized().Role.IsFullAccess()
}

// Has reports whether the acting user holds flag on menuID. Full-access
// roles are granted everything without consulting the cache or backend.
func (uc *PermissionUseCase) Has(ctx context.Context, menuID int64, flag domain.AuthFlag) bool {
	if uc.IsFullAccess() {
		uc.count("full_access")
		return true
	}
	return uc.GetAuth(ctx, menuID).Has(flag)
}

// IsViewOnly reports whether the acting user may read menuID but not
// change anything in it.
func (uc *PermissionUseCase) IsViewOnly(ctx context.Context, menuID int64) bool {
	if uc.IsFullAccess() {
		return false
	}
	return uc.GetAuth(ctx, menuID).ViewOnly()
}

// GetAuth returns the auth flags of menuID. Entries older than the TTL are
// never used; when the backend cannot be reached the result falls back to
// AllowAll for full-access roles and DenyAll for everyone else.
func (uc *PermissionUseCase) GetAuth(ctx context.Context, menuID int64) domain.MenuAuth {
	identity, ok := uc.sessions.Identity()
	if !ok {
		return domain.DenyAll()
	}
	identity = identity.Normalized()

	entry, err := uc.store.Get(ctx, identity.UserID, menuID)
	if err != nil {
		uc.logger.Warn().Err(err).Int64("menu_id", menuID).Msg("permission store read failed")
	}
	if err == nil && entry != nil && entry.Fresh(uc.clock.Now(), uc.ttl) {
		uc.count("hit")
		return entry.Auth
	}

	key := fmt.Sprintf("%d:%d", identity.UserID, menuID)
	// The shared fetch outlives any one caller; each caller still stops
	// waiting when its own context ends.
	ch := uc.flights.DoChan(key, func() (any, error) {
		return uc.fetch(context.WithoutCancel(ctx), identity.UserID, menuID)
	})

	var (
		v   any
		err error
	)
	select {
	case res := <-ch:
		v, err = res.Val, res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		uc.count("fallback")
		uc.logger.Warn().Err(err).
			Int64("menu_id", menuID).
			Str("role", string(identity.Role)).
			Msg("menu auth unavailable, using conservative default")
		if identity.Role.IsFullAccess() {
			return domain.AllowAll()
		}
		return domain.DenyAll()
	}

	uc.count("miss")
	return v.(domain.MenuAuth)
}

func (uc *PermissionUseCase) fetch(ctx context.Context, userID, menuID int64) (domain.MenuAuth, error) {
	token, ok := uc.sessions.AccessToken()
	if !ok {
		return domain.MenuAuth{}, domain.ErrNotAuthenticated
	}

	auth, err := uc.gateway.MenuAuth(ctx, token, userID, menuID)
	if err != nil {
		return domain.MenuAuth{}, err
	}

	entry := domain.PermissionEntry{
		UserID:   userID,
		MenuID:   menuID,
		Auth:     auth,
		CachedAt: uc.clock.Now(),
	}
	if err := uc.store.Put(ctx, entry); err != nil {
		uc.logger.Warn().Err(err).Int64("menu_id", menuID).Msg("permission store write failed")
	}

	return auth, nil
}

// Seed caches the auth flags embedded in a freshly loaded menu tree.
func (uc *PermissionUseCase) Seed(ctx context.Context, userID int64, tree *domain.MenuTree) {
	now := uc.clock.Now()
	seeded := 0
	tree.Walk(func(n *domain.MenuNode) {
		if n.Auth == nil {
			return
		}
		entry := domain.PermissionEntry{
			UserID:   userID,
			MenuID:   n.MenuID,
			Auth:     *n.Auth,
			CachedAt: now,
		}
		if err := uc.store.Put(ctx, entry); err != nil {
			uc.logger.Warn().Err(err).Int64("menu_id", n.MenuID).Msg("permission seed failed")
			return
		}
		seeded++
	})
	uc.logger.Debug().Int64("user_id", userID).Int("entries", seeded).Msg("permission cache seeded")
}

// Invalidate drops every cached entry.
func (uc *PermissionUseCase) Invalidate(ctx context.Context) error {
	if err := uc.store.Purge(ctx); err != nil {
		return fmt.Errorf("purge permission cache: %w", err)
	}
	return nil
}

// CanAccessResource reports whether the acting user may see r. It is a
// console visibility check; the backend enforces ownership on its own.
func (uc *PermissionUseCase) CanAccessResource(r domain.Resource) bool {
	identity, ok := uc.sessions.Identity()
	if !ok {
		return false
	}
	return domain.CanAccessResource(r, identity)
}

func (uc *PermissionUseCase) count(source string) {
	if uc.metrics != nil {
		uc.metrics.PermissionLookups.WithLabelValues(source).Inc()
	}
}
