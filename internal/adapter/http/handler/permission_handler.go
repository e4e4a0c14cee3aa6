package handler

import (
	"context"
	"net/http"

	"github.com/iho/logiadmin/internal/adapter/http/dto"
	"github.com/iho/logiadmin/internal/domain"
)

// PermissionService defines the behavior needed by PermissionHandler.
type PermissionService interface {
	IsFullAccess() bool
	GetAuth(ctx context.Context, menuID int64) domain.MenuAuth
}

// MenuService loads the navigation menu of the acting user.
type MenuService interface {
	LoadTree(ctx context.Context, force bool) (*domain.MenuTree, error)
}

// PermissionHandler exposes menu permissions to the console.
type PermissionHandler struct {
	permissions PermissionService
	menus       MenuService
	sessions    IdentitySource
}

// NewPermissionHandler creates a new PermissionHandler.
func NewPermissionHandler(permissions PermissionService, menus MenuService, sessions IdentitySource) *PermissionHandler {
	return &PermissionHandler{permissions: permissions, menus: menus, sessions: sessions}
}

// Get returns the CRUD flags of one menu. Lookup failures answer with
// all flags denied rather than an error.
func (h *PermissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.Identity(); !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated", "")
		return
	}

	menuID, ok := parseIDParam(r, "menuId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid menu ID", "")
		return
	}

	auth := h.permissions.GetAuth(r.Context(), menuID)
	writeJSON(w, http.StatusOK, dto.PermissionFromDomain(menuID, auth, h.permissions.IsFullAccess()))
}

// Menus returns the menu tree. ?refresh=true bypasses the cache.
func (h *PermissionHandler) Menus(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	tree, err := h.menus.LoadTree(r.Context(), force)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load menus", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MenusFromTree(tree))
}
