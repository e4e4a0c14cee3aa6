// Package app wires configuration, stores and the backend client into an
// AuthContext. Both binaries build on it.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/logiadmin/internal/adapter/backend"
	filerepo "github.com/iho/logiadmin/internal/adapter/repository/file"
	memoryrepo "github.com/iho/logiadmin/internal/adapter/repository/memory"
	postgresrepo "github.com/iho/logiadmin/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/logiadmin/internal/adapter/repository/redis"
	"github.com/iho/logiadmin/internal/infrastructure/auth"
	"github.com/iho/logiadmin/internal/infrastructure/config"
	"github.com/iho/logiadmin/internal/infrastructure/metrics"
	"github.com/iho/logiadmin/internal/infrastructure/postgres"
	"github.com/iho/logiadmin/internal/infrastructure/redis"
	"github.com/iho/logiadmin/internal/usecase"
)

// App holds the wired components of one console profile.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Backend  *backend.Client
	Auth     *usecase.AuthContext

	// Pool and Redis are nil unless a store needs them.
	Pool  *pgxpool.Pool
	Redis *goredis.Client
}

// New connects the configured stores and builds the AuthContext. The
// caller must Close the returned App.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	baseURL, err := backend.ResolveBaseURL(cfg.AppEnv, cfg.APIBaseURL)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics.New(reg),
	}

	if cfg.NeedsPostgres() {
		if err := postgres.RunMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
		a.Pool, err = postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:    cfg.DatabaseURL,
			MaxConns:       cfg.DatabaseMaxConns,
			MinConns:       cfg.DatabaseMinConns,
			ConnectTimeout: cfg.DatabaseTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		logger.Info().Msg("connected to postgres")
	}

	if cfg.NeedsRedis() {
		a.Redis, err = redis.NewClient(ctx, cfg.RedisURL, cfg.Profile, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	sessions, err := a.sessionStore()
	if err != nil {
		a.Close()
		return nil, err
	}
	permissions, err := a.permissionStore()
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Backend = backend.New(backend.Config{
		BaseURL:    baseURL,
		Timeout:    cfg.BackendTimeout,
		MaxRetries: cfg.BackendMaxRetries,
	}, logger, a.Metrics)

	a.Auth = usecase.NewAuthContext(usecase.AuthContextDeps{
		Auth:        a.Backend,
		Menus:       a.Backend,
		Sessions:    sessions,
		Permissions: permissions,
		Expiry:      TokenExpiry(cfg),
		Clock:       usecase.SystemClock{},
		Session: usecase.SessionConfig{
			ExpiryBuffer:      cfg.TokenExpiryBuffer,
			InactivityTimeout: cfg.InactivityTimeout,
		},
		Guard: usecase.GuardConfig{
			LoginPath:        cfg.LoginPath,
			DashboardPath:    cfg.DashboardPath,
			HomePath:         cfg.HomePath,
			UnauthorizedPath: cfg.UnauthorizedPath,
			ProtectedPrefix:  cfg.ProtectedPrefix,
		},
		PermissionTTL: cfg.PermissionTTL,
		Logger:        logger,
		Metrics:       a.Metrics,
	})

	logger.Info().
		Str("profile", cfg.Profile).
		Str("backend", baseURL).
		Str("session_store", cfg.SessionBackend).
		Str("permission_cache", cfg.PermissionCacheBackend).
		Msg("auth context ready")

	return a, nil
}

// TokenExpiry picks the expiry source named by the configuration.
func TokenExpiry(cfg *config.Config) usecase.TokenExpiry {
	if cfg.TokenExpirySource == config.ExpirySourceJWT {
		return auth.NewJWTExpiry(cfg.TokenLifetime)
	}
	return usecase.FixedTokenLifetime(cfg.TokenLifetime)
}

func (a *App) sessionStore() (usecase.SessionStore, error) {
	cfg := a.Config

	switch cfg.SessionBackend {
	case config.BackendMemory:
		return memoryrepo.NewSessionStore(), nil
	case config.BackendRedis:
		return redisrepo.NewSessionStore(a.Redis, cfg.Profile), nil
	case config.BackendPostgres:
		retrier := postgresrepo.NewRetrier(a.Logger)
		return postgresrepo.NewSessionStore(a.Pool, postgresrepo.NewTxManager(a.Pool, retrier), cfg.Profile), nil
	case config.BackendFile:
		path := cfg.SessionFile
		if path == "" {
			var err error
			if path, err = filerepo.DefaultPath(cfg.Profile); err != nil {
				return nil, err
			}
		}
		return filerepo.NewSessionStore(path)
	}
	return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}

func (a *App) permissionStore() (usecase.PermissionStore, error) {
	cfg := a.Config

	switch cfg.PermissionCacheBackend {
	case config.BackendMemory:
		return memoryrepo.NewPermissionStore(), nil
	case config.BackendRedis:
		return redisrepo.NewPermissionStore(a.Redis, cfg.Profile, cfg.PermissionTTL), nil
	case config.BackendPostgres:
		return postgresrepo.NewPermissionStore(a.Pool, postgresrepo.NewRetrier(a.Logger), cfg.Profile), nil
	}
	return nil, fmt.Errorf("unknown permission cache backend %q", cfg.PermissionCacheBackend)
}

// Ready pings the stores in use.
func (a *App) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if a.Pool != nil {
		if err := a.Pool.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close waits for background refreshes and releases connections.
func (a *App) Close() {
	if a.Auth != nil {
		a.Auth.Close()
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}
