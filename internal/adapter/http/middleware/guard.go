package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/domain"
)

// Guard decides whether a navigation may proceed.
type Guard interface {
	Evaluate(ctx context.Context, nav domain.Navigation) domain.Decision
}

// GuardMiddleware evaluates every request against the guard and turns
// redirect decisions into 302 responses.
type GuardMiddleware struct {
	guard  Guard
	logger zerolog.Logger
}

// NewGuardMiddleware creates a new GuardMiddleware.
func NewGuardMiddleware(guard Guard, logger zerolog.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		guard:  guard,
		logger: logger.With().Str("component", "guard_middleware").Logger(),
	}
}

// Wrap wraps an http.Handler with the guard.
func (m *GuardMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nav := domain.Navigation{
			Path:     r.URL.Path,
			FullPath: r.URL.RequestURI(),
		}

		// The proxy forwards the raw path, so only canonical paths may
		// reach it.
		if canonical := nav.Canonical(); canonical.Path != nav.Path {
			http.Redirect(w, r, canonical.FullPath, http.StatusMovedPermanently)
			return
		}

		decision := m.guard.Evaluate(r.Context(), nav)
		if decision.IsAllowed() {
			next.ServeHTTP(w, r)
			return
		}

		m.logger.Debug().
			Str("path", nav.Path).
			Str("outcome", string(decision.Outcome)).
			Str("reason", string(decision.Reason)).
			Str("location", decision.Location).
			Msg("navigation redirected")

		http.Redirect(w, r, redirectLocation(decision), http.StatusFound)
	})
}

// redirectLocation appends the decision message, if any, as ?message=.
func redirectLocation(d domain.Decision) string {
	if d.Message == "" {
		return d.Location
	}

	u, err := url.Parse(d.Location)
	if err != nil {
		return d.Location
	}
	q := u.Query()
	q.Set("message", d.Message)
	u.RawQuery = q.Encode()
	return u.String()
}
