package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/adapter/http/handler"
	"github.com/iho/logiadmin/internal/adapter/http/middleware"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
)

// APIPrefix is where the gateway API is mounted. Everything outside it
// and the health endpoints belongs to the console frontend.
const APIPrefix = "/_gateway"

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SessionHandler       *handler.SessionHandler
	ImpersonationHandler *handler.ImpersonationHandler
	PermissionHandler    *handler.PermissionHandler
	HealthHandler        *handler.HealthHandler

	// Guard is evaluated for every frontend request before Frontend.
	Guard    middleware.Guard
	Frontend http.Handler

	// LoginLimiter throttles POST /login when set.
	LoginLimiter *middleware.RateLimiter

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Health endpoints
	r.Get("/healthz", cfg.HealthHandler.Liveness)
	r.Get("/readyz", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Gateway API
	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/session", cfg.SessionHandler.Get)

		login := http.Handler(http.HandlerFunc(cfg.SessionHandler.Login))
		if cfg.LoginLimiter != nil {
			login = cfg.LoginLimiter.Limit(login)
		}
		r.Method(http.MethodPost, "/login", login)
		r.Post("/logout", cfg.SessionHandler.Logout)

		r.Route("/impersonate", func(r chi.Router) {
			r.Get("/targets", cfg.ImpersonationHandler.Targets)
			r.Post("/revert", cfg.ImpersonationHandler.Stop)
			r.Post("/{userId}", cfg.ImpersonationHandler.Start)
		})

		r.Get("/permissions/{menuId}", cfg.PermissionHandler.Get)
		r.Get("/menus", cfg.PermissionHandler.Menus)
	})

	// Console frontend
	guard := middleware.NewGuardMiddleware(cfg.Guard, cfg.Logger)
	r.With(guard.Wrap).Handle("/*", cfg.Frontend)

	return r
}
