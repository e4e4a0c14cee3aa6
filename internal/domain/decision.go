package domain

import (
	"path"
	"strings"
)

// Outcome is the terminal state of a guard evaluation.
type Outcome string

const (
	Allowed              Outcome = "allowed"
	RedirectLogin        Outcome = "redirect_login"
	RedirectUnauthorized Outcome = "redirect_unauthorized"
	RedirectDashboard    Outcome = "redirect_dashboard"
)

// Reason explains why a decision was taken. It is used for logs and
// metric labels, never shown to users.
type Reason string

const (
	ReasonPublic            Reason = "public"
	ReasonLoginPage         Reason = "login_page"
	ReasonAlreadyLoggedIn   Reason = "already_logged_in"
	ReasonNoSession         Reason = "no_session"
	ReasonInactive          Reason = "inactive"
	ReasonRefreshFailed     Reason = "refresh_failed"
	ReasonMissingRole       Reason = "missing_role"
	ReasonFullAccess        Reason = "full_access"
	ReasonUnmatchedRoute    Reason = "unmatched_route"
	ReasonReadGranted       Reason = "read_granted"
	ReasonReadDenied        Reason = "read_denied"
	ReasonMenuLookupFailure Reason = "menu_lookup_failed"
)

// Navigation is one attempt to open a console route.
type Navigation struct {
	// Path is the route path without query string.
	Path string
	// FullPath includes the query string and is what gets remembered for
	// the post-login redirect.
	FullPath string
}

// CleanPath resolves dot segments and repeated slashes so that every
// spelling of a route compares equal. A trailing slash is kept.
func CleanPath(p string) string {
	cleaned := path.Clean("/" + p)
	if strings.HasSuffix(p, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}

// Canonical returns the navigation with both paths cleaned. The query
// string of FullPath is kept as is.
func (n Navigation) Canonical() Navigation {
	full := n.FullPath
	if full == "" {
		full = n.Path
	}
	p, query, hasQuery := strings.Cut(full, "?")
	full = CleanPath(p)
	if hasQuery {
		full += "?" + query
	}
	return Navigation{Path: CleanPath(n.Path), FullPath: full}
}

// Decision is the result of guarding a navigation.
type Decision struct {
	Outcome  Outcome
	Location string
	Message  string
	Reason   Reason
}

// IsAllowed reports whether the navigation may proceed.
func (d Decision) IsAllowed() bool {
	return d.Outcome == Allowed
}
