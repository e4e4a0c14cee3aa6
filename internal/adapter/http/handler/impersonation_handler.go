package handler

import (
	"context"
	"net/http"

	"github.com/iho/logiadmin/internal/adapter/http/dto"
	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

// ImpersonationService defines the behavior needed by ImpersonationHandler.
type ImpersonationService interface {
	Start(ctx context.Context, targetUserID int64) error
	Stop(ctx context.Context) error
	Snapshot() domain.ImpersonationSnapshot
	ListTargets(ctx context.Context, query usecase.TargetQuery) (*usecase.TargetPage, error)
}

// IdentitySource exposes the acting identity.
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// ImpersonationHandler handles administrator impersonation.
type ImpersonationHandler struct {
	impersonation ImpersonationService
	sessions      IdentitySource
}

// NewImpersonationHandler creates a new ImpersonationHandler.
func NewImpersonationHandler(impersonation ImpersonationService, sessions IdentitySource) *ImpersonationHandler {
	return &ImpersonationHandler{impersonation: impersonation, sessions: sessions}
}

// Start begins acting as the user in the URL.
func (h *ImpersonationHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(r, "userId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user ID", "")
		return
	}

	if err := h.impersonation.Start(r.Context(), userID); err != nil {
		writeError(w, mapDomainError(err), "impersonation failed", err.Error())
		return
	}

	h.writeState(w)
}

// Stop returns to the original administrator.
func (h *ImpersonationHandler) Stop(w http.ResponseWriter, r *http.Request) {
	if err := h.impersonation.Stop(r.Context()); err != nil {
		writeError(w, mapDomainError(err), "revert failed", err.Error())
		return
	}

	h.writeState(w)
}

// Targets lists the users that may be impersonated.
func (h *ImpersonationHandler) Targets(w http.ResponseWriter, r *http.Request) {
	query := usecase.TargetQuery{
		Keyword: r.URL.Query().Get("keyword"),
		Page:    parseIntQuery(r, "page", 0),
		Size:    parseIntQuery(r, "size", 0),
	}

	page, err := h.impersonation.ListTargets(r.Context(), query)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list targets", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TargetPageFromUseCase(page))
}

type impersonationStateResponse struct {
	Identity      *dto.IdentityResponse      `json:"identity,omitempty"`
	Impersonation *dto.ImpersonationResponse `json:"impersonation"`
}

func (h *ImpersonationHandler) writeState(w http.ResponseWriter) {
	resp := impersonationStateResponse{
		Impersonation: dto.ImpersonationFromDomain(h.impersonation.Snapshot()),
	}
	if identity, ok := h.sessions.Identity(); ok {
		resp.Identity = dto.IdentityFromDomain(identity)
	}
	writeJSON(w, http.StatusOK, resp)
}
