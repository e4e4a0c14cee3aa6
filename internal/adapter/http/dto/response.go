package dto

import (
	"time"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// IdentityResponse represents the acting user.
type IdentityResponse struct {
	UserID      int64  `json:"userId"`
	LoginID     string `json:"loginId,omitempty"`
	DisplayName string `json:"userName"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	RoleName    string `json:"roleName,omitempty"`
	FullAccess  bool   `json:"fullAccess"`
}

// IdentityFromDomain converts a domain identity to response.
func IdentityFromDomain(i domain.Identity) *IdentityResponse {
	return &IdentityResponse{
		UserID:      i.UserID,
		LoginID:     i.LoginID,
		DisplayName: i.DisplayName,
		Email:       i.Email,
		Role:        string(i.Role),
		RoleName:    i.Role.DisplayName(),
		FullAccess:  i.Role.IsFullAccess(),
	}
}

// ImpersonationResponse describes an active impersonation.
type ImpersonationResponse struct {
	Active           bool              `json:"active"`
	OriginalIdentity *IdentityResponse `json:"originalIdentity,omitempty"`
	StartedAt        *time.Time        `json:"startedAt,omitempty"`
}

// ImpersonationFromDomain converts a snapshot to response.
func ImpersonationFromDomain(s domain.ImpersonationSnapshot) *ImpersonationResponse {
	resp := &ImpersonationResponse{Active: s.Active}
	if s.OriginalIdentity != nil {
		resp.OriginalIdentity = IdentityFromDomain(*s.OriginalIdentity)
	}
	if !s.StartedAt.IsZero() {
		started := s.StartedAt
		resp.StartedAt = &started
	}
	return resp
}

// SessionResponse represents the current console session. Tokens are
// never exposed to the browser.
type SessionResponse struct {
	Authenticated bool                   `json:"authenticated"`
	Identity      *IdentityResponse      `json:"identity,omitempty"`
	TokenExpiry   *time.Time             `json:"tokenExpiry,omitempty"`
	LastActivity  *time.Time             `json:"lastActivity,omitempty"`
	ExpiringSoon  bool                   `json:"expiringSoon"`
	Impersonation *ImpersonationResponse `json:"impersonation,omitempty"`
}

// SessionFromDomain converts a session to response. A nil session is an
// unauthenticated response.
func SessionFromDomain(s *domain.Session, expiringSoon bool, snap domain.ImpersonationSnapshot) *SessionResponse {
	if s == nil {
		return &SessionResponse{}
	}

	expiry, activity := s.TokenExpiry, s.LastActivity
	resp := &SessionResponse{
		Authenticated: true,
		Identity:      IdentityFromDomain(s.Identity),
		TokenExpiry:   &expiry,
		LastActivity:  &activity,
		ExpiringSoon:  expiringSoon,
	}
	if snap.Active {
		resp.Impersonation = ImpersonationFromDomain(snap)
	}
	return resp
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Identity    *IdentityResponse `json:"identity"`
	TokenExpiry time.Time         `json:"tokenExpiry"`
	RedirectTo  string            `json:"redirectTo,omitempty"`
}

// LoginFromResult converts a login result to response.
func LoginFromResult(res *usecase.LoginResult) *LoginResponse {
	return &LoginResponse{
		Identity:    IdentityFromDomain(res.Session.Identity),
		TokenExpiry: res.Session.TokenExpiry,
		RedirectTo:  res.RedirectTo,
	}
}

// PermissionResponse represents the CRUD flags of one menu.
type PermissionResponse struct {
	MenuID     int64 `json:"menuId"`
	Read       bool  `json:"readAuth"`
	Write      bool  `json:"writeAuth"`
	Edit       bool  `json:"editAuth"`
	Delete     bool  `json:"deleteAuth"`
	ViewOnly   bool  `json:"viewOnly"`
	FullAccess bool  `json:"fullAccess"`
}

// PermissionFromDomain converts menu auth to response.
func PermissionFromDomain(menuID int64, auth domain.MenuAuth, fullAccess bool) *PermissionResponse {
	return &PermissionResponse{
		MenuID:     menuID,
		Read:       auth.Read,
		Write:      auth.Write,
		Edit:       auth.Edit,
		Delete:     auth.Delete,
		ViewOnly:   auth.ViewOnly(),
		FullAccess: fullAccess,
	}
}

// MenuResponse is one node of the navigation menu.
type MenuResponse struct {
	MenuID   int64           `json:"menuId"`
	Code     string          `json:"menuCode,omitempty"`
	Name     string          `json:"menuName"`
	URL      string          `json:"menuUrl,omitempty"`
	Children []*MenuResponse `json:"children,omitempty"`
}

// MenusFromTree converts a menu tree to nested responses.
func MenusFromTree(tree *domain.MenuTree) []*MenuResponse {
	roots := tree.Roots()
	result := make([]*MenuResponse, 0, len(roots))
	for _, n := range roots {
		result = append(result, menuFromNode(tree, n))
	}
	return result
}

func menuFromNode(tree *domain.MenuTree, n *domain.MenuNode) *MenuResponse {
	resp := &MenuResponse{
		MenuID: n.MenuID,
		Code:   n.Code,
		Name:   n.Name,
		URL:    n.URL,
	}
	for _, child := range tree.Children(n) {
		resp.Children = append(resp.Children, menuFromNode(tree, child))
	}
	return resp
}

// TargetResponse is a user an administrator may impersonate.
type TargetResponse struct {
	UserID      int64  `json:"userId"`
	LoginID     string `json:"loginId"`
	DisplayName string `json:"userName"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
}

// TargetPageResponse is one page of impersonation targets.
type TargetPageResponse struct {
	Targets       []*TargetResponse `json:"content"`
	TotalElements int               `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// TargetPageFromUseCase converts a target page to response.
func TargetPageFromUseCase(page *usecase.TargetPage) *TargetPageResponse {
	resp := &TargetPageResponse{
		Targets:       make([]*TargetResponse, len(page.Targets)),
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
	}
	for i, t := range page.Targets {
		resp.Targets[i] = &TargetResponse{
			UserID:      t.UserID,
			LoginID:     t.LoginID,
			DisplayName: t.DisplayName,
			Email:       t.Email,
			Role:        string(t.Role),
		}
	}
	return resp
}
