package usecase

import "time"

const (
	// DefaultTokenLifetime is assumed for access tokens when the backend
	// does not report one.
	DefaultTokenLifetime = time.Hour

	// DefaultExpiryBuffer is the lead time before expiry during which a
	// background refresh is attempted.
	DefaultExpiryBuffer = 5 * time.Minute

	// DefaultInactivityTimeout ends a session that saw no activity.
	DefaultInactivityTimeout = 30 * time.Minute

	// DefaultPermissionTTL is how long a cached menu auth entry stays usable.
	DefaultPermissionTTL = 5 * time.Minute

	// DefaultBackgroundRefreshTimeout bounds a refresh nobody waits for.
	DefaultBackgroundRefreshTimeout = 30 * time.Second

	// MissingRoleMessage is shown when an account has no role assigned.
	MissingRoleMessage = "Your account has no role assigned. Contact an administrator."
)

// FixedTokenLifetime expires every token a fixed duration after issue.
type FixedTokenLifetime time.Duration

// ExpiresAt returns issuedAt plus the lifetime.
func (f FixedTokenLifetime) ExpiresAt(_ string, issuedAt time.Time) time.Time {
	return issuedAt.Add(time.Duration(f))
}
