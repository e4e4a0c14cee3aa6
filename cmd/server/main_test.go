package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/logiadmin/internal/adapter/http/middleware"
	"github.com/iho/logiadmin/internal/app"
	"github.com/iho/logiadmin/internal/infrastructure/config"
)

func newTestApp(t *testing.T, frontendURL string) *app.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:                 "local",
		Profile:                "server-test",
		SessionBackend:         config.BackendMemory,
		PermissionCacheBackend: config.BackendMemory,
		TokenLifetime:          time.Hour,
		TokenExpiryBuffer:      5 * time.Minute,
		TokenExpirySource:      config.ExpirySourceFixed,
		InactivityTimeout:      30 * time.Minute,
		PermissionTTL:          5 * time.Minute,
		BackendTimeout:         time.Second,
		FrontendURL:            frontendURL,
		LoginPath:              "/login",
		DashboardPath:          "/admin/dashboard",
		HomePath:               "/",
		ProtectedPrefix:        "/admin",
		UnauthorizedPath:       "/unauthorized",
	}

	a, err := app.New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewRouter(t *testing.T) {
	frontend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("console:" + r.URL.Path))
	}))
	defer frontend.Close()

	a := newTestApp(t, frontend.URL)
	router, err := newRouter(a, middleware.NewRateLimiter(1, 5))
	require.NoError(t, err)

	t.Run("liveness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("public page is proxied", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "console:/about", rec.Body.String())
	})

	t.Run("protected page without session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("session api without session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_gateway/session", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"expiringSoon":false}`, rec.Body.String())
	})
}

func TestNewRouter_InvalidFrontend(t *testing.T) {
	a := newTestApp(t, "not a url")

	_, err := newRouter(a, middleware.NewRateLimiter(1, 5))

	assert.Error(t, err)
}

func TestCleanupLimiterStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		cleanupLimiter(ctx, middleware.NewRateLimiter(1, 1))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
