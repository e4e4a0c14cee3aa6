package domain

import "time"

// Session is the authenticated state of the console.
//
// A session is either complete (every field set) or absent. Callers hold
// *Session and use nil for the logged-out state.
type Session struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
	LastActivity time.Time
}

// Complete reports whether every field of the session is populated.
func (s *Session) Complete() bool {
	return s != nil &&
		s.Identity.UserID != 0 &&
		s.AccessToken != "" &&
		s.RefreshToken != "" &&
		!s.TokenExpiry.IsZero() &&
		!s.LastActivity.IsZero()
}

// IsExpired reports whether the access token is past its expiry.
// An absent session counts as expired.
func (s *Session) IsExpired(now time.Time) bool {
	if s == nil || s.TokenExpiry.IsZero() {
		return true
	}
	return !now.Before(s.TokenExpiry)
}

// IsExpiringSoon reports whether now is within buffer of the expiry.
// It is already true for expired tokens.
func (s *Session) IsExpiringSoon(now time.Time, buffer time.Duration) bool {
	if s == nil || s.TokenExpiry.IsZero() {
		return false
	}
	return !now.Before(s.TokenExpiry.Add(-buffer))
}

// IsInactive reports whether more than timeout passed since the last
// activity. It is independent of the token expiry.
func (s *Session) IsInactive(now time.Time, timeout time.Duration) bool {
	if s == nil || s.LastActivity.IsZero() {
		return false
	}
	return now.Sub(s.LastActivity) > timeout
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// ImpersonationSnapshot records the administrator behind an active
// impersonation. Active implies OriginalIdentity != nil.
type ImpersonationSnapshot struct {
	Active           bool      `json:"active"`
	OriginalIdentity *Identity `json:"originalIdentity,omitempty"`
	StartedAt        time.Time `json:"startedAt,omitzero"`
}

// Valid reports whether the snapshot satisfies its invariant.
func (s ImpersonationSnapshot) Valid() bool {
	return !s.Active || s.OriginalIdentity != nil
}

// Credentials are submitted to the login endpoint.
type Credentials struct {
	LoginID    string
	Password   string
	RememberMe bool
}

// TokenGrant is what the backend hands out on login, impersonation and
// revert: a token pair and the identity it belongs to.
type TokenGrant struct {
	Identity     Identity
	AccessToken  string
	RefreshToken string
}

// RefreshGrant is the result of a refresh exchange. RefreshToken is empty
// when the backend does not rotate it; ExpiresIn is zero when the backend
// does not report a lifetime.
type RefreshGrant struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}
