package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/iho/logiadmin/internal/app"
	"github.com/iho/logiadmin/internal/infrastructure/config"
	"github.com/iho/logiadmin/internal/infrastructure/logger"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	baseURL  string
	profile  string
	env      string
	logLevel string
}

// openApp builds the AuthContext for one command run. Tests replace it.
var openApp = func(ctx context.Context, opts *globalOptions) (*app.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Out: os.Stderr})
	return app.New(ctx, cfg, log)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "logiadmin",
		Short:         "Logistics admin console CLI",
		Long:          `A command line interface for signing in to the logistics admin backend and inspecting console access.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "", "Backend API base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "Session profile (overrides PROFILE)")
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", "", "Environment: local, dev, production (overrides APP_ENV)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(
		loginCmd(opts),
		logoutCmd(opts),
		whoamiCmd(opts),
		navCmd(opts),
		canCmd(opts),
		menusCmd(opts),
		impersonateCmd(opts),
		revertCmd(opts),
		targetsCmd(opts),
		refreshPermissionsCmd(opts),
		migrateCmd(opts),
	)

	return rootCmd
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	applyOverrides(cfg, opts)
	return cfg, nil
}

func applyOverrides(cfg *config.Config, opts *globalOptions) {
	if opts.baseURL != "" {
		cfg.APIBaseURL = opts.baseURL
	}
	if opts.profile != "" {
		cfg.Profile = opts.profile
	}
	if opts.env != "" {
		cfg.AppEnv = opts.env
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
}

// withApp opens the app, runs fn and closes it again.
func withApp(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
