package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// IdentityChangeFunc is called after the acting identity changed. Either
// side may be nil (login has no previous identity, logout no next one).
type IdentityChangeFunc func(ctx context.Context, previous, next *domain.Identity)

// SessionConfig tunes session lifetimes. Zero fields use the defaults.
type SessionConfig struct {
	ExpiryBuffer      time.Duration
	InactivityTimeout time.Duration
	BackgroundTimeout time.Duration
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.ExpiryBuffer <= 0 {
		c.ExpiryBuffer = DefaultExpiryBuffer
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.BackgroundTimeout <= 0 {
		c.BackgroundTimeout = DefaultBackgroundRefreshTimeout
	}
	return c
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Session *domain.Session
	// RedirectTo is the path remembered before the login, if any.
	RedirectTo string
}

// SessionUseCase owns the token lifecycle of the console session.
type SessionUseCase struct {
	gateway AuthGateway
	store   SessionStore
	expiry  TokenExpiry
	clock   Clock
	cfg     SessionConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu            sync.Mutex
	session       *domain.Session
	impersonation domain.ImpersonationSnapshot
	redirect      string
	// generation moves whenever tokens or identity change in memory;
	// savedGeneration is the last one written to the store.
	generation      uint64
	savedGeneration uint64

	// persistMu orders snapshot+save pairs so saves land in mutation order.
	persistMu sync.Mutex

	flights    singleflight.Group
	background sync.WaitGroup

	hooksMu sync.RWMutex
	hooks   []IdentityChangeFunc
}

// NewSessionUseCase creates a new session use case.
func NewSessionUseCase(
	gateway AuthGateway,
	store SessionStore,
	expiry TokenExpiry,
	clock Clock,
	cfg SessionConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *SessionUseCase {
	if expiry == nil {
		expiry = FixedTokenLifetime(DefaultTokenLifetime)
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &SessionUseCase{
		gateway: gateway,
		store:   store,
		expiry:  expiry,
		clock:   clock,
		cfg:     cfg.withDefaults(),
		logger:  logger.With().Str("component", "session").Logger(),
		metrics: m,
	}
}

// OnIdentityChange registers fn to run after login, logout, impersonation
// switches and role changes reported by the backend.
func (uc *SessionUseCase) OnIdentityChange(fn IdentityChangeFunc) {
	uc.hooksMu.Lock()
	defer uc.hooksMu.Unlock()
	uc.hooks = append(uc.hooks, fn)
}

func (uc *SessionUseCase) notify(ctx context.Context, previous, next *domain.Identity) {
	uc.hooksMu.RLock()
	hooks := append([]IdentityChangeFunc(nil), uc.hooks...)
	uc.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(ctx, previous, next)
	}
}

// Login authenticates against the backend and starts a new session.
func (uc *SessionUseCase) Login(ctx context.Context, creds domain.Credentials) (*LoginResult, error) {
	if creds.LoginID == "" || creds.Password == "" {
		uc.countLogin("invalid")
		return nil, domain.ErrInvalidCredentials
	}

	grant, err := uc.gateway.Login(ctx, creds)
	if err != nil {
		uc.countLogin("failure")
		return nil, fmt.Errorf("login: %w", err)
	}

	now := uc.clock.Now()
	identity := grant.Identity.Normalized()
	if identity.LoginID == "" {
		identity.LoginID = creds.LoginID
	}
	session := &domain.Session{
		Identity:     identity,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenExpiry:  uc.expiry.ExpiresAt(grant.AccessToken, now),
		LastActivity: now,
	}
	if !session.Complete() {
		uc.countLogin("failure")
		return nil, fmt.Errorf("login: %w", domain.ErrMalformedResponse)
	}

	uc.mu.Lock()
	previous := uc.identityLocked()
	redirect := uc.redirect
	priorSession, priorImpersonation := uc.session, uc.impersonation
	uc.session = session
	uc.impersonation = domain.ImpersonationSnapshot{}
	uc.redirect = ""
	uc.generation++
	installed := uc.generation
	uc.mu.Unlock()

	if err := uc.persist(ctx); err != nil {
		uc.countLogin("failure")
		uc.mu.Lock()
		// Roll back unless something newer replaced the session meanwhile.
		if uc.generation == installed {
			uc.session = priorSession
			uc.impersonation = priorImpersonation
			uc.redirect = redirect
			uc.generation++
			uc.savedGeneration = uc.generation
		}
		uc.mu.Unlock()
		return nil, err
	}

	uc.countLogin("success")
	uc.logger.Info().
		Int64("user_id", identity.UserID).
		Str("role", string(identity.Role)).
		Msg("logged in")

	uc.notify(ctx, previous, &identity)

	return &LoginResult{Session: session.Clone(), RedirectTo: redirect}, nil
}

// Touch records user activity now.
func (uc *SessionUseCase) Touch(ctx context.Context) error {
	uc.mu.Lock()
	if uc.session == nil {
		uc.mu.Unlock()
		return domain.ErrNotAuthenticated
	}
	uc.session.LastActivity = uc.clock.Now()
	uc.mu.Unlock()

	return uc.persist(ctx)
}

// IsExpired reports whether the access token is past its expiry. It is
// true when there is no session.
func (uc *SessionUseCase) IsExpired() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.session.IsExpired(uc.clock.Now())
}

// IsExpiringSoon reports whether the token expires within the buffer.
func (uc *SessionUseCase) IsExpiringSoon() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.session.IsExpiringSoon(uc.clock.Now(), uc.cfg.ExpiryBuffer)
}

// IsInactive reports whether the inactivity timeout elapsed since the last
// touch.
func (uc *SessionUseCase) IsInactive() bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.session.IsInactive(uc.clock.Now(), uc.cfg.InactivityTimeout)
}

// RestoreAndVerify reloads the persisted session and confirms the access
// token with the backend. Any failure clears the session. Concurrent
// callers share one verification and observe the same result.
func (uc *SessionUseCase) RestoreAndVerify(ctx context.Context) error {
	ch := uc.flights.DoChan("verify", func() (any, error) {
		return nil, uc.restoreAndVerify(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, ctx.Err())
	}
}

func (uc *SessionUseCase) restoreAndVerify(ctx context.Context) error {
	uc.mu.Lock()
	loadedAt := uc.generation
	pending := uc.generation != uc.savedGeneration
	uc.mu.Unlock()

	if pending {
		// The store still trails a change made in this process.
		return uc.supersededResult()
	}

	state, err := uc.store.Load(ctx)
	if err != nil {
		if uc.superseded(loadedAt) {
			return uc.supersededResult()
		}
		uc.logger.Warn().Err(err).Msg("persisted session unreadable")
		uc.countVerification("unreadable")
		uc.dropQuietly(ctx)
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, err)
	}

	uc.mu.Lock()
	if uc.generation != loadedAt {
		// A login, refresh or switch landed after the load; memory is newer
		// than the copy just read.
		uc.mu.Unlock()
		return uc.supersededResult()
	}

	if state.Session == nil {
		uc.redirect = state.RedirectAfterLogin
		held := uc.session != nil
		uc.mu.Unlock()
		uc.countVerification("absent")
		if state.Incomplete || held {
			uc.dropQuietly(ctx)
		}
		return domain.ErrNotAuthenticated
	}

	previous := uc.identityLocked()
	uc.session = state.Session
	uc.impersonation = state.Impersonation
	uc.redirect = state.RedirectAfterLogin
	uc.generation++
	uc.savedGeneration = uc.generation
	installed := uc.generation
	token := state.Session.AccessToken
	stored := state.Session.Identity
	uc.mu.Unlock()

	identity, err := uc.gateway.Me(ctx, token)
	if err != nil {
		if uc.superseded(installed) {
			return uc.supersededResult()
		}
		uc.logger.Warn().Err(err).Int64("user_id", stored.UserID).Msg("session verification failed")
		uc.countVerification("rejected")
		uc.dropQuietly(ctx)
		return fmt.Errorf("%w: %w", domain.ErrVerificationFailed, err)
	}

	verified := identity.Normalized()
	if verified.UserID == 0 {
		verified.UserID = stored.UserID
	}
	if verified.LoginID == "" {
		verified.LoginID = stored.LoginID
	}

	uc.mu.Lock()
	if uc.generation != installed {
		uc.mu.Unlock()
		return uc.supersededResult()
	}
	uc.session.Identity = verified
	uc.mu.Unlock()

	if !verified.Equal(stored) {
		if err := uc.persist(ctx); err != nil {
			uc.logger.Warn().Err(err).Msg("failed to persist verified identity")
		}
	}

	uc.countVerification("success")

	switch {
	case previous == nil || previous.UserID != verified.UserID:
		uc.notify(ctx, previous, &verified)
	case previous.Role != verified.Role:
		uc.logger.Info().
			Str("from", string(previous.Role)).
			Str("to", string(verified.Role)).
			Msg("role changed")
		uc.notify(ctx, previous, &verified)
	}

	return nil
}

// superseded reports whether the session changed in memory since gen.
func (uc *SessionUseCase) superseded(gen uint64) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.generation != gen
}

// supersededResult reports the outcome of a verification overtaken by a
// newer mutation: whatever session memory now holds stands.
func (uc *SessionUseCase) supersededResult() error {
	uc.countVerification("superseded")
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.session == nil {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// Refresh exchanges the refresh token for a new access token and waits for
// the result. Failure clears the session.
func (uc *SessionUseCase) Refresh(ctx context.Context) error {
	err := uc.exchange(ctx)
	if err == nil {
		uc.countRefresh("blocking", "success")
		return nil
	}
	if errors.Is(err, domain.ErrSessionOwnerChanged) {
		uc.countRefresh("blocking", "superseded")
		return err
	}

	uc.countRefresh("blocking", "failure")
	uc.logger.Warn().Err(err).Msg("token refresh failed, clearing session")
	uc.dropQuietly(ctx)
	return err
}

// RefreshInBackground starts a refresh nobody waits for. Failure is only
// logged; the next navigation re-evaluates the session.
func (uc *SessionUseCase) RefreshInBackground() {
	uc.background.Add(1)
	go func() {
		defer uc.background.Done()

		ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.BackgroundTimeout)
		defer cancel()

		if err := uc.exchange(ctx); err != nil {
			uc.countRefresh("background", "failure")
			uc.logger.Warn().Err(err).Msg("background token refresh failed")
			return
		}
		uc.countRefresh("background", "success")
		uc.logger.Debug().Msg("background token refresh succeeded")
	}()
}

// WaitBackground blocks until every background refresh has finished.
func (uc *SessionUseCase) WaitBackground() {
	uc.background.Wait()
}

func (uc *SessionUseCase) exchange(ctx context.Context) error {
	ch := uc.flights.DoChan("refresh", func() (any, error) {
		return nil, uc.doExchange(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrRefreshFailed, ctx.Err())
	}
}

func (uc *SessionUseCase) doExchange(ctx context.Context) error {
	uc.mu.Lock()
	if uc.session == nil || uc.session.RefreshToken == "" {
		uc.mu.Unlock()
		return fmt.Errorf("%w: %w", domain.ErrRefreshFailed, domain.ErrNoRefreshToken)
	}
	used := uc.session.RefreshToken
	uc.mu.Unlock()

	grant, err := uc.gateway.Refresh(ctx, used)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRefreshFailed, err)
	}
	if grant.AccessToken == "" {
		return fmt.Errorf("%w: %w", domain.ErrRefreshFailed, domain.ErrMalformedResponse)
	}

	now := uc.clock.Now()
	expiry := uc.expiry.ExpiresAt(grant.AccessToken, now)
	if grant.ExpiresIn > 0 {
		expiry = now.Add(grant.ExpiresIn)
	}

	uc.mu.Lock()
	if uc.session == nil || uc.session.RefreshToken != used {
		uc.mu.Unlock()
		return domain.ErrSessionOwnerChanged
	}
	uc.session.AccessToken = grant.AccessToken
	if grant.RefreshToken != "" {
		uc.session.RefreshToken = grant.RefreshToken
	}
	uc.session.TokenExpiry = expiry
	uc.generation++
	uc.mu.Unlock()

	return uc.persist(ctx)
}

// Clear wipes the in-memory and persisted session, impersonation snapshot
// and remembered redirect. It is idempotent.
func (uc *SessionUseCase) Clear(ctx context.Context) error {
	return uc.reset(ctx, false)
}

// dropQuietly ends the session after a failed verification or refresh. The
// remembered redirect survives so the next login can return to it.
func (uc *SessionUseCase) dropQuietly(ctx context.Context) {
	if err := uc.reset(ctx, true); err != nil {
		uc.logger.Error().Err(err).Msg("failed to clear session")
	}
}

func (uc *SessionUseCase) reset(ctx context.Context, keepRedirect bool) error {
	uc.mu.Lock()
	previous := uc.identityLocked()
	uc.session = nil
	uc.impersonation = domain.ImpersonationSnapshot{}
	uc.generation++
	if !keepRedirect {
		uc.redirect = ""
	}
	redirect := uc.redirect
	cleared := uc.generation
	uc.mu.Unlock()

	var err error
	if redirect == "" {
		uc.persistMu.Lock()
		if err = uc.store.Clear(ctx); err == nil {
			uc.markSaved(cleared)
		}
		uc.persistMu.Unlock()
	} else {
		err = uc.persist(ctx)
	}

	if uc.metrics != nil {
		uc.metrics.SessionClears.Inc()
	}

	if previous != nil {
		uc.notify(ctx, previous, nil)
	}

	if err != nil {
		return fmt.Errorf("clear session store: %w", err)
	}
	return nil
}

// Logout tells the backend to end the session, then clears it locally.
// Backend failures are logged and do not prevent the local clear.
func (uc *SessionUseCase) Logout(ctx context.Context) error {
	uc.mu.Lock()
	var (
		token  string
		userID int64
	)
	if uc.session != nil {
		token = uc.session.AccessToken
		userID = uc.session.Identity.UserID
	}
	uc.mu.Unlock()

	if token != "" {
		if err := uc.gateway.Logout(ctx, token, userID); err != nil {
			uc.logger.Warn().Err(err).Int64("user_id", userID).Msg("backend logout failed")
		}
	}

	return uc.Clear(ctx)
}

// SaveRedirect remembers path for the next successful login.
func (uc *SessionUseCase) SaveRedirect(ctx context.Context, path string) error {
	uc.mu.Lock()
	uc.redirect = path
	uc.mu.Unlock()
	return uc.persist(ctx)
}

// ConsumeRedirect returns and forgets the remembered path.
func (uc *SessionUseCase) ConsumeRedirect(ctx context.Context) (string, error) {
	uc.mu.Lock()
	path := uc.redirect
	uc.redirect = ""
	uc.mu.Unlock()

	if path == "" {
		return "", nil
	}
	return path, uc.persist(ctx)
}

// Current returns a copy of the session, if any.
func (uc *SessionUseCase) Current() (*domain.Session, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.session == nil {
		return nil, false
	}
	return uc.session.Clone(), true
}

// Identity returns the acting identity, if any.
func (uc *SessionUseCase) Identity() (domain.Identity, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.session == nil {
		return domain.Identity{}, false
	}
	return uc.session.Identity, true
}

// AccessToken returns the current access token, if any.
func (uc *SessionUseCase) AccessToken() (string, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.session == nil {
		return "", false
	}
	return uc.session.AccessToken, true
}

func (uc *SessionUseCase) impersonationSnapshot() domain.ImpersonationSnapshot {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.impersonation
}

// swapGrant replaces identity and tokens in one step, provided the session
// still carries expectedToken.
func (uc *SessionUseCase) swapGrant(
	ctx context.Context,
	expectedToken string,
	grant *domain.TokenGrant,
	snapshot domain.ImpersonationSnapshot,
) (*domain.Identity, error) {
	now := uc.clock.Now()
	identity := grant.Identity.Normalized()

	uc.mu.Lock()
	if uc.session == nil || uc.session.AccessToken != expectedToken {
		uc.mu.Unlock()
		return nil, domain.ErrSessionOwnerChanged
	}
	previous := uc.session.Identity
	uc.session = &domain.Session{
		Identity:     identity,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		TokenExpiry:  uc.expiry.ExpiresAt(grant.AccessToken, now),
		LastActivity: now,
	}
	uc.impersonation = snapshot
	uc.generation++
	uc.mu.Unlock()

	if err := uc.persist(ctx); err != nil {
		return nil, err
	}

	uc.notify(ctx, &previous, &identity)
	return &previous, nil
}

func (uc *SessionUseCase) identityLocked() *domain.Identity {
	if uc.session == nil {
		return nil
	}
	identity := uc.session.Identity
	return &identity
}

func (uc *SessionUseCase) persist(ctx context.Context) error {
	uc.persistMu.Lock()
	defer uc.persistMu.Unlock()

	uc.mu.Lock()
	state := &domain.PersistedState{
		Session:            uc.session.Clone(),
		Impersonation:      uc.impersonation,
		RedirectAfterLogin: uc.redirect,
	}
	gen := uc.generation
	uc.mu.Unlock()

	if err := uc.store.Save(ctx, state); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	uc.markSaved(gen)
	return nil
}

// markSaved records that the store holds generation gen. Callers hold
// persistMu, so saves complete in generation order.
func (uc *SessionUseCase) markSaved(gen uint64) {
	uc.mu.Lock()
	if gen > uc.savedGeneration {
		uc.savedGeneration = gen
	}
	uc.mu.Unlock()
}

func (uc *SessionUseCase) countLogin(result string) {
	if uc.metrics != nil {
		uc.metrics.Logins.WithLabelValues(result).Inc()
	}
}

func (uc *SessionUseCase) countVerification(result string) {
	if uc.metrics != nil {
		uc.metrics.Verifications.WithLabelValues(result).Inc()
	}
}

func (uc *SessionUseCase) countRefresh(mode, result string) {
	if uc.metrics != nil {
		uc.metrics.Refreshes.WithLabelValues(mode, result).Inc()
	}
}
