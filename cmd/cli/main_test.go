package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/logiadmin/internal/app"
	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/config"
)

// useMemoryApp points openApp at an app with in-memory stores and no
// session.
func useMemoryApp(t *testing.T) *globalOptions {
	t.Helper()

	var seen globalOptions
	orig := openApp
	openApp = func(ctx context.Context, opts *globalOptions) (*app.App, error) {
		seen = *opts
		cfg := &config.Config{
			AppEnv:                 "local",
			Profile:                "cli-test",
			SessionBackend:         config.BackendMemory,
			PermissionCacheBackend: config.BackendMemory,
			TokenLifetime:          time.Hour,
			TokenExpirySource:      config.ExpirySourceFixed,
			InactivityTimeout:      30 * time.Minute,
			PermissionTTL:          5 * time.Minute,
			BackendTimeout:         time.Second,
		}
		applyOverrides(cfg, opts)
		return app.New(ctx, cfg, zerolog.Nop())
	}
	t.Cleanup(func() { openApp = orig })

	return &seen
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("expected short unchanged, got %q", got)
	}

	if got := truncate("longerstring", 6); got != "lon..." {
		t.Fatalf("expected lon..., got %q", got)
	}

	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected ab, got %q", got)
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	err := printJSON(&buf, struct {
		A int `json:"a"`
	}{A: 1})

	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestApplyOverrides(t *testing.T) {
	cfg := &config.Config{AppEnv: "production", Profile: "default", LogLevel: "info"}

	applyOverrides(cfg, &globalOptions{profile: "ops", baseURL: "http://backend.test/api"})

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "ops", cfg.Profile)
	assert.Equal(t, "http://backend.test/api", cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestReadPassword(t *testing.T) {
	got, err := readPassword(strings.NewReader("s3cret\r\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	got, err = readPassword(strings.NewReader("no-newline"))
	require.NoError(t, err)
	assert.Equal(t, "no-newline", got)
}

func TestNavCmd_NoSession(t *testing.T) {
	seen := useMemoryApp(t)

	out, err := execute(t, "--profile", "ops", "nav", "/admin/orders?status=open")
	require.NoError(t, err)

	var res navResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.RedirectLogin, res.Outcome)
	assert.Equal(t, domain.ReasonNoSession, res.Reason)
	assert.Equal(t, "/login", res.Location)
	assert.Equal(t, "ops", seen.profile)
}

func TestNavCmd_PublicRoute(t *testing.T) {
	useMemoryApp(t)

	out, err := execute(t, "nav", "/about")
	require.NoError(t, err)

	var res navResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.Allowed, res.Outcome)
	assert.Equal(t, domain.ReasonPublic, res.Reason)
}

func TestCanCmd(t *testing.T) {
	useMemoryApp(t)

	out, err := execute(t, "can", "100", "writeAuth")
	require.NoError(t, err)
	assert.JSONEq(t, `{"menuId":100,"flag":"write","allowed":false}`, out)

	_, err = execute(t, "can", "abc")
	assert.ErrorContains(t, err, "invalid menu id")

	_, err = execute(t, "can", "100", "approve")
	assert.Error(t, err)
}

func TestSessionCommandsRequireLogin(t *testing.T) {
	useMemoryApp(t)

	for _, args := range [][]string{
		{"whoami"},
		{"menus"},
		{"impersonate", "7"},
		{"revert"},
		{"impersonation-targets"},
		{"refresh-permissions"},
	} {
		t.Run(args[0], func(t *testing.T) {
			_, err := execute(t, args...)
			assert.ErrorIs(t, err, errNotLoggedIn)
		})
	}
}

func TestImpersonateCmd_InvalidUserID(t *testing.T) {
	useMemoryApp(t)

	_, err := execute(t, "impersonate", "me")

	assert.ErrorContains(t, err, "invalid user id")
}

func TestLogoutCmd_WithoutSession(t *testing.T) {
	useMemoryApp(t)

	out, err := execute(t, "logout")

	require.NoError(t, err)
	assert.Equal(t, "logged out\n", out)
}

func TestLoginCmd_RequiresPassword(t *testing.T) {
	useMemoryApp(t)
	t.Setenv("LOGIADMIN_PASSWORD", "")

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"login", "alice"})

	assert.Error(t, cmd.Execute())
}
