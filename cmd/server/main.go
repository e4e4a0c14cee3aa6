package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/logiadmin/internal/adapter/http"
	"github.com/iho/logiadmin/internal/adapter/http/handler"
	"github.com/iho/logiadmin/internal/adapter/http/middleware"
	"github.com/iho/logiadmin/internal/app"
	"github.com/iho/logiadmin/internal/infrastructure/config"
	"github.com/iho/logiadmin/internal/infrastructure/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("gateway failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	limiter := middleware.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateBurst)
	go cleanupLimiter(ctx, limiter)

	router, err := newRouter(a, limiter)
	if err != nil {
		return err
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("frontend", cfg.FrontendURL).Msg("starting gateway")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down gateway...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("gateway forced to shutdown: %w", err)
	}

	log.Info().Msg("gateway stopped")
	return nil
}

func newRouter(a *app.App, limiter *middleware.RateLimiter) (http.Handler, error) {
	frontend, err := httpAdapter.NewFrontendProxy(a.Config.FrontendURL, a.Logger)
	if err != nil {
		return nil, err
	}

	ac := a.Auth
	return httpAdapter.NewRouter(httpAdapter.RouterConfig{
		SessionHandler:       handler.NewSessionHandler(ac.Sessions, ac.Impersonation, a.Logger),
		ImpersonationHandler: handler.NewImpersonationHandler(ac.Impersonation, ac.Sessions),
		PermissionHandler:    handler.NewPermissionHandler(ac.Permissions, ac.Menus, ac.Sessions),
		HealthHandler:        handler.NewHealthHandler(a.Pool, a.Redis),
		Guard:                ac.Guard,
		Frontend:             frontend,
		LoginLimiter:         limiter,
		Metrics:              a.Metrics,
		Gatherer:             a.Registry,
		Logger:               a.Logger,
	}), nil
}

func cleanupLimiter(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup(time.Hour)
		}
	}
}
