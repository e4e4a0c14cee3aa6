package http

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/rs/zerolog"
)

// NewFrontendProxy returns a reverse proxy to the console frontend at
// target. Upstream failures answer 502 and are logged.
func NewFrontendProxy(target string, logger zerolog.Logger) (*httputil.ReverseProxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid frontend URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid frontend URL %q: scheme and host are required", target)
	}

	log := logger.With().Str("component", "frontend_proxy").Str("target", u.String()).Logger()

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("frontend unavailable")
			w.WriteHeader(http.StatusBadGateway)
		},
	}, nil
}
