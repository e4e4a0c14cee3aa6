package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/adapter/http/dto"
	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	Login(ctx context.Context, creds domain.Credentials) (*usecase.LoginResult, error)
	Logout(ctx context.Context) error
	RestoreAndVerify(ctx context.Context) error
	Current() (*domain.Session, bool)
	IsExpiringSoon() bool
}

// SnapshotSource exposes the impersonation snapshot.
type SnapshotSource interface {
	Snapshot() domain.ImpersonationSnapshot
}

// SessionHandler handles login, logout and session inspection.
type SessionHandler struct {
	sessions      SessionService
	impersonation SnapshotSource
	logger        zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions SessionService, impersonation SnapshotSource, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions:      sessions,
		impersonation: impersonation,
		logger:        logger.With().Str("component", "session_handler").Logger(),
	}
}

// Get returns the current session after verifying it with the backend.
// A missing or rejected session is reported as unauthenticated, not as
// an error.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RestoreAndVerify(r.Context()); err != nil && !errors.Is(err, domain.ErrNotAuthenticated) {
		h.logger.Debug().Err(err).Msg("session verification failed")
	}

	session, _ := h.sessions.Current()
	snap := h.impersonation.Snapshot()
	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session, session != nil && h.sessions.IsExpiringSoon(), snap))
}

// Login authenticates with the backend.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	res, err := h.sessions.Login(r.Context(), req.ToCredentials())
	if err != nil {
		status := mapDomainError(err)
		if status == http.StatusUnauthorized {
			writeError(w, status, "login failed", "invalid login id or password")
			return
		}
		writeError(w, status, "login failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginFromResult(res))
}

// Logout ends the session. It succeeds even without a session.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "logout failed", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
