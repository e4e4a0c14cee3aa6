package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

// flag decodes the backend's "Y"/"N" permission flags. JSON booleans are
// accepted as well.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case `"Y"`, `"y"`, "true":
		*f = true
	case `"N"`, `"n"`, `""`, "false", "null":
		*f = false
	default:
		return fmt.Errorf("invalid auth flag %s", b)
	}
	return nil
}

// flexID holds a user id sent either as a number or as a string. A string
// that is not numeric is kept in Text; older builds send the login id there.
type flexID struct {
	Num  int64
	Text string
}

func (id *flexID) UnmarshalJSON(b []byte) error {
	*id = flexID{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			id.Num = n
		} else {
			id.Text = s
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		return fmt.Errorf("invalid user id %s", b)
	}
	id.Num = v
	return nil
}

func (id flexID) set() bool {
	return id.Num != 0 || id.Text != ""
}

// userDTO matches /common/users/me, the login userInfo and the flat
// revert payload. JSON key matching is case-insensitive, so "userid" and
// "userId" both land in UserID.
type userDTO struct {
	UserID   flexID `json:"userId"`
	LoginID  string `json:"loginId"`
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (u userDTO) identity() domain.Identity {
	loginID := u.LoginID
	if loginID == "" {
		loginID = u.UserID.Text
	}
	return domain.Identity{
		UserID:      u.UserID.Num,
		LoginID:     loginID,
		DisplayName: u.UserName,
		Email:       u.Email,
		Role:        domain.Role(u.Role),
	}
}

type loginRequest struct {
	UserID     string `json:"userId"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	UserID int64 `json:"userId"`
}

// grantDTO covers the login, impersonate and revert responses.
type grantDTO struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	UserInfo     *userDTO `json:"userInfo"`

	TargetUserID   flexID `json:"targetUserId"`
	TargetUserName string `json:"targetUserName"`
	TargetEmail    string `json:"targetEmail"`
	TargetRole     string `json:"targetRole"`

	userDTO
}

func (g grantDTO) grant(endpoint string) (*domain.TokenGrant, error) {
	if g.AccessToken == "" {
		return nil, fmt.Errorf("%w: %s: missing access token", domain.ErrMalformedResponse, endpoint)
	}

	var identity domain.Identity
	switch {
	case g.UserInfo != nil:
		identity = g.UserInfo.identity()
	case g.TargetUserID.set():
		identity = userDTO{
			UserID:   g.TargetUserID,
			UserName: g.TargetUserName,
			Email:    g.TargetEmail,
			Role:     g.TargetRole,
		}.identity()
	default:
		identity = g.userDTO.identity()
	}

	return &domain.TokenGrant{
		Identity:     identity,
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
	}, nil
}

type refreshDTO struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn is in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

type authDTO struct {
	ReadAuth   flag `json:"readAuth"`
	WriteAuth  flag `json:"writeAuth"`
	EditAuth   flag `json:"editAuth"`
	DeleteAuth flag `json:"deleteAuth"`
}

func (a authDTO) toDomain() domain.MenuAuth {
	return domain.MenuAuth{
		Read:   bool(a.ReadAuth),
		Write:  bool(a.WriteAuth),
		Edit:   bool(a.EditAuth),
		Delete: bool(a.DeleteAuth),
	}
}

type menuDTO struct {
	MenuID       int64     `json:"menuId"`
	MenuCode     string    `json:"menuCode"`
	MenuName     string    `json:"menuName"`
	MenuURL      string    `json:"menuUrl"`
	ParentMenuID int64     `json:"parentMenuId"`
	Auth         *authDTO  `json:"auth"`
	Children     []menuDTO `json:"children"`
}

func (m menuDTO) toDomain() domain.MenuItem {
	item := domain.MenuItem{
		MenuID:   m.MenuID,
		Code:     m.MenuCode,
		Name:     m.MenuName,
		URL:      m.MenuURL,
		ParentID: m.ParentMenuID,
	}
	if m.Auth != nil {
		auth := m.Auth.toDomain()
		item.Auth = &auth
	}
	if len(m.Children) > 0 {
		item.Children = make([]domain.MenuItem, 0, len(m.Children))
		for _, child := range m.Children {
			item.Children = append(item.Children, child.toDomain())
		}
	}
	return item
}

type targetPageDTO struct {
	Content       []userDTO `json:"content"`
	TotalElements int       `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
}

func (p targetPageDTO) toUsecase() *usecase.TargetPage {
	page := &usecase.TargetPage{
		Targets:       make([]usecase.ImpersonationTarget, 0, len(p.Content)),
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
	}
	for _, u := range p.Content {
		id := u.identity()
		page.Targets = append(page.Targets, usecase.ImpersonationTarget{
			UserID:      id.UserID,
			LoginID:     id.LoginID,
			DisplayName: id.DisplayName,
			Email:       id.Email,
			Role:        domain.NormalizeRole(u.Role),
		})
	}
	return page
}
