package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/logiadmin/internal/adapter/http/dto"
	"github.com/iho/logiadmin/internal/app"
	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/infrastructure/logger"
	"github.com/iho/logiadmin/internal/infrastructure/postgres"
	"github.com/iho/logiadmin/internal/usecase"
)

var errNotLoggedIn = errors.New("not logged in, run `logiadmin login` first")

// restore loads the persisted session and verifies it with the backend.
func restore(ctx context.Context, a *app.App) error {
	err := a.Auth.Sessions.RestoreAndVerify(ctx)
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return errNotLoggedIn
	}
	return err
}

func loginCmd(opts *globalOptions) *cobra.Command {
	var (
		password   string
		rememberMe bool
	)

	cmd := &cobra.Command{
		Use:   "login <login-id>",
		Short: "Sign in and persist the session for the profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("LOGIADMIN_PASSWORD")
			}
			if password == "" {
				var err error
				if password, err = readPassword(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			req := dto.LoginRequest{LoginID: args[0], Password: password, RememberMe: rememberMe}
			if err := req.Validate(); err != nil {
				return err
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				res, err := a.Auth.Sessions.Login(ctx, req.ToCredentials())
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.LoginFromResult(res))
			})
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (defaults to LOGIADMIN_PASSWORD, then stdin)")
	cmd.Flags().BoolVar(&rememberMe, "remember-me", false, "Ask the backend for a long-lived session")

	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func logoutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the backend and clear it locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				// A session the backend already rejected is cleared by restore.
				_ = a.Auth.Sessions.RestoreAndVerify(ctx)
				if err := a.Auth.Sessions.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func whoamiCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the verified session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				session, _ := a.Auth.Sessions.Current()
				resp := dto.SessionFromDomain(session, a.Auth.Sessions.IsExpiringSoon(), a.Auth.Impersonation.Snapshot())
				return printJSON(cmd.OutOrStdout(), resp)
			})
		},
	}
}

type navResult struct {
	Path     string         `json:"path"`
	Outcome  domain.Outcome `json:"outcome"`
	Location string         `json:"location,omitempty"`
	Message  string         `json:"message,omitempty"`
	Reason   domain.Reason  `json:"reason"`
}

func navCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "nav <path>",
		Short: "Evaluate the route guard for a console path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, _ := strings.Cut(args[0], "?")
			nav := domain.Navigation{Path: path, FullPath: args[0]}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				d := a.Auth.Guard.Evaluate(ctx, nav)
				return printJSON(cmd.OutOrStdout(), navResult{
					Path:     args[0],
					Outcome:  d.Outcome,
					Location: d.Location,
					Message:  d.Message,
					Reason:   d.Reason,
				})
			})
		},
	}
}

type canResult struct {
	MenuID  int64           `json:"menuId"`
	Flag    domain.AuthFlag `json:"flag"`
	Allowed bool            `json:"allowed"`
}

func canCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "can <menu-id> [read|write|edit|delete]",
		Short: "Check one permission flag on a menu",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			menuID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid menu id %q", args[0])
			}

			flag := domain.AuthRead
			if len(args) == 2 {
				if flag, err = domain.ParseAuthFlag(args[1]); err != nil {
					return err
				}
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil && !errors.Is(err, errNotLoggedIn) {
					return err
				}
				return printJSON(cmd.OutOrStdout(), canResult{
					MenuID:  menuID,
					Flag:    flag,
					Allowed: a.Auth.Permissions.Has(ctx, menuID, flag),
				})
			})
		},
	}
}

func menusCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "menus",
		Short: "Show the menu tree of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				tree, err := a.Auth.Menus.LoadTree(ctx, false)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), dto.MenusFromTree(tree))
				}
				printTree(cmd.OutOrStdout(), tree)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")

	return cmd
}

func printTree(w io.Writer, tree *domain.MenuTree) {
	tree.Walk(func(n *domain.MenuNode) {
		indent := strings.Repeat("  ", tree.Depth(n))
		fmt.Fprintf(w, "%s%-6d %-12s %-30s %s\n", indent, n.MenuID, truncate(n.Code, 12), truncate(n.Name, 30), n.URL)
	})
}

func impersonateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "impersonate <user-id>",
		Short: "Act as another user (system administrators only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				if err := a.Auth.Impersonation.Start(ctx, userID); err != nil {
					return err
				}
				return printImpersonation(cmd.OutOrStdout(), a)
			})
		},
	}
}

func revertCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "revert",
		Short: "Stop impersonating and return to the original user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				if err := a.Auth.Impersonation.Stop(ctx); err != nil {
					return err
				}
				return printImpersonation(cmd.OutOrStdout(), a)
			})
		},
	}
}

func printImpersonation(w io.Writer, a *app.App) error {
	identity, _ := a.Auth.Sessions.Identity()
	return printJSON(w, struct {
		Identity      *dto.IdentityResponse      `json:"identity"`
		Impersonation *dto.ImpersonationResponse `json:"impersonation"`
	}{
		Identity:      dto.IdentityFromDomain(identity),
		Impersonation: dto.ImpersonationFromDomain(a.Auth.Impersonation.Snapshot()),
	})
}

func targetsCmd(opts *globalOptions) *cobra.Command {
	var query usecase.TargetQuery

	cmd := &cobra.Command{
		Use:   "impersonation-targets",
		Short: "List users that may be impersonated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				page, err := a.Auth.Impersonation.ListTargets(ctx, query)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), dto.TargetPageFromUseCase(page))
			})
		},
	}

	cmd.Flags().StringVarP(&query.Keyword, "keyword", "k", "", "Filter by name or login id")
	cmd.Flags().IntVar(&query.Page, "page", 0, "Page number, zero based")
	cmd.Flags().IntVar(&query.Size, "size", 20, "Page size")

	return cmd
}

func refreshPermissionsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-permissions",
		Short: "Drop cached permissions and reload the menu tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := restore(ctx, a); err != nil {
					return err
				}
				tree, err := a.Auth.RefreshPermissions(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reloaded %d menus\n", tree.Len())
				return nil
			})
		},
	}
}

// migrateCmd manages the Postgres store schema. It needs no session and
// does not build an AuthContext.
func migrateCmd(opts *globalOptions) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres session store schema",
	}

	run := func(fn func(databaseURL string, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return fn(cfg.DatabaseURL, cmd)
		}
	}

	migrate.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(databaseURL string, cmd *cobra.Command) error {
				log := logger.New(logger.Config{Level: "info", Format: "console", Out: cmd.ErrOrStderr()})
				return postgres.RunMigrations(databaseURL, log)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			Args:  cobra.NoArgs,
			RunE: run(func(databaseURL string, cmd *cobra.Command) error {
				log := logger.New(logger.Config{Level: "info", Format: "console", Out: cmd.ErrOrStderr()})
				return postgres.RunMigrationsDown(databaseURL, log)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: run(func(databaseURL string, cmd *cobra.Command) error {
				version, dirty, err := postgres.MigrationVersion(databaseURL)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			}),
		},
	)

	return migrate
}
