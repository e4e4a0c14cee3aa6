package dto

import (
	"errors"
	"strings"

	"github.com/iho/logiadmin/internal/domain"
)

// LoginRequest represents a console login.
type LoginRequest struct {
	LoginID    string `json:"loginId"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.LoginID) == "" {
		return errors.New("loginId is required")
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() domain.Credentials {
	return domain.Credentials{
		LoginID:    strings.TrimSpace(r.LoginID),
		Password:   r.Password,
		RememberMe: r.RememberMe,
	}
}
