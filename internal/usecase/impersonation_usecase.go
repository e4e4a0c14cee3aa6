package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// ImpersonationUseCase switches an administrator into another user's
// session and back. Only one level of impersonation exists.
type ImpersonationUseCase struct {
	sessions *SessionUseCase
	gateway  AuthGateway
	clock    Clock
	logger   zerolog.Logger
	metrics  *metrics.Metrics

	// mu serializes Start and Stop.
	mu sync.Mutex
}

// NewImpersonationUseCase creates a new impersonation use case.
func NewImpersonationUseCase(
	sessions *SessionUseCase,
	gateway AuthGateway,
	clock Clock,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *ImpersonationUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ImpersonationUseCase{
		sessions: sessions,
		gateway:  gateway,
		clock:    clock,
		logger:   logger.With().Str("component", "impersonation").Logger(),
		metrics:  m,
	}
}

// CanStart reports whether identity may start an impersonation now.
// It has no side effects.
func (uc *ImpersonationUseCase) CanStart(identity domain.Identity) bool {
	return identity.Normalized().Role.IsAdmin() && !uc.sessions.impersonationSnapshot().Active
}

// Snapshot returns the current impersonation snapshot.
func (uc *ImpersonationUseCase) Snapshot() domain.ImpersonationSnapshot {
	return uc.sessions.impersonationSnapshot()
}

// Start switches the session to targetUserID. On any error the session is
// left untouched.
func (uc *ImpersonationUseCase) Start(ctx context.Context, targetUserID int64) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	session, ok := uc.sessions.Current()
	if !ok {
		uc.count("start", "rejected")
		return domain.ErrNotAuthenticated
	}

	original := session.Identity.Normalized()
	switch {
	case !original.Role.IsAdmin():
		uc.count("start", "rejected")
		return domain.ErrImpersonationNotAllowed
	case uc.sessions.impersonationSnapshot().Active:
		uc.count("start", "rejected")
		return domain.ErrAlreadyImpersonating
	case targetUserID == original.UserID:
		uc.count("start", "rejected")
		return domain.ErrSelfImpersonation
	case targetUserID <= 0:
		uc.count("start", "rejected")
		return fmt.Errorf("%w: invalid target user id %d", domain.ErrImpersonationRejected, targetUserID)
	}

	grant, err := uc.gateway.Impersonate(ctx, session.AccessToken, targetUserID)
	if err != nil {
		uc.count("start", "failure")
		uc.logger.Warn().Err(err).
			Int64("admin_id", original.UserID).
			Int64("target_id", targetUserID).
			Msg("impersonation rejected")
		return fmt.Errorf("%w: %w", domain.ErrImpersonationRejected, err)
	}
	if grant.AccessToken == "" || grant.RefreshToken == "" {
		uc.count("start", "failure")
		return fmt.Errorf("%w: %w", domain.ErrImpersonationRejected, domain.ErrMalformedResponse)
	}
	if grant.Identity.UserID == 0 {
		grant.Identity.UserID = targetUserID
	}

	snapshot := domain.ImpersonationSnapshot{
		Active:           true,
		OriginalIdentity: &original,
		StartedAt:        uc.clock.Now(),
	}
	if _, err := uc.sessions.swapGrant(ctx, session.AccessToken, grant, snapshot); err != nil {
		uc.count("start", "failure")
		return err
	}

	uc.count("start", "success")
	uc.logger.Info().
		Int64("admin_id", original.UserID).
		Int64("target_id", grant.Identity.UserID).
		Str("target_role", string(grant.Identity.Normalized().Role)).
		Msg("impersonation started")

	return nil
}

// Stop returns to the original administrator with a fresh token pair from
// the backend.
func (uc *ImpersonationUseCase) Stop(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snapshot := uc.sessions.impersonationSnapshot()
	if !snapshot.Active {
		uc.count("stop", "rejected")
		return domain.ErrNotImpersonating
	}

	session, ok := uc.sessions.Current()
	if !ok {
		uc.count("stop", "rejected")
		return domain.ErrNotAuthenticated
	}

	grant, err := uc.gateway.RevertImpersonation(ctx, session.AccessToken)
	if err != nil {
		uc.count("stop", "failure")
		uc.logger.Warn().Err(err).Msg("impersonation revert failed")
		return fmt.Errorf("revert impersonation: %w", err)
	}
	if grant.AccessToken == "" || grant.RefreshToken == "" {
		uc.count("stop", "failure")
		return fmt.Errorf("revert impersonation: %w", domain.ErrMalformedResponse)
	}

	// The revert response may omit fields the snapshot still knows.
	original := snapshot.OriginalIdentity
	if grant.Identity.UserID == 0 {
		grant.Identity.UserID = original.UserID
	}
	if grant.Identity.UserID == original.UserID {
		if grant.Identity.LoginID == "" {
			grant.Identity.LoginID = original.LoginID
		}
		if grant.Identity.DisplayName == "" {
			grant.Identity.DisplayName = original.DisplayName
		}
		if grant.Identity.Email == "" {
			grant.Identity.Email = original.Email
		}
		if grant.Identity.Role == "" {
			grant.Identity.Role = original.Role
		}
	}

	if _, err := uc.sessions.swapGrant(ctx, session.AccessToken, grant, domain.ImpersonationSnapshot{}); err != nil {
		uc.count("stop", "failure")
		return err
	}

	uc.count("stop", "success")
	uc.logger.Info().
		Int64("admin_id", grant.Identity.UserID).
		Int64("impersonated_id", session.Identity.UserID).
		Msg("impersonation stopped")

	return nil
}

// ListTargets returns users the current administrator may impersonate.
func (uc *ImpersonationUseCase) ListTargets(ctx context.Context, query TargetQuery) (*TargetPage, error) {
	session, ok := uc.sessions.Current()
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}
	if !session.Identity.Normalized().Role.IsAdmin() {
		return nil, domain.ErrImpersonationNotAllowed
	}

	if query.Page < 0 {
		query.Page = 0
	}
	if query.Size <= 0 {
		query.Size = 20
	}

	page, err := uc.gateway.ListImpersonationTargets(ctx, session.AccessToken, query)
	if err != nil {
		return nil, fmt.Errorf("list impersonation targets: %w", err)
	}

	// The backend may include the caller; an admin can never target itself.
	targets := page.Targets[:0]
	for _, t := range page.Targets {
		if t.UserID != session.Identity.UserID {
			targets = append(targets, t)
		}
	}
	page.Targets = targets

	return page, nil
}

// IsRejection reports whether err is an expected impersonation refusal
// rather than an infrastructure failure.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrImpersonationNotAllowed) ||
		errors.Is(err, domain.ErrAlreadyImpersonating) ||
		errors.Is(err, domain.ErrSelfImpersonation) ||
		errors.Is(err, domain.ErrNotImpersonating) ||
		errors.Is(err, domain.ErrImpersonationRejected)
}

func (uc *ImpersonationUseCase) count(action, result string) {
	if uc.metrics != nil {
		uc.metrics.Impersonations.WithLabelValues(action, result).Inc()
	}
}
