package domain

import "errors"

var (
	// Session errors
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrSessionIncomplete   = errors.New("persisted session is incomplete")
	ErrVerificationFailed  = errors.New("session verification failed")
	ErrRefreshFailed       = errors.New("token refresh failed")
	ErrNoRefreshToken      = errors.New("no refresh token")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSessionOwnerChanged = errors.New("session changed during request")

	// Backend errors
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrMalformedResponse  = errors.New("malformed backend response")

	// Impersonation errors
	ErrImpersonationNotAllowed = errors.New("only a system administrator may impersonate")
	ErrAlreadyImpersonating    = errors.New("an impersonation is already active")
	ErrSelfImpersonation       = errors.New("cannot impersonate yourself")
	ErrNotImpersonating        = errors.New("no impersonation is active")
	ErrImpersonationRejected   = errors.New("impersonation rejected by backend")

	// Authorization errors
	ErrMissingRole     = errors.New("account has no role assigned")
	ErrUnknownAuthFlag = errors.New("unknown auth flag")
)
