// Package cmd wires the sportzone command line: the interactive storefront
// by default, plus scriptable subcommands for the common lookups.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sportzone-cli/config"
	"sportzone-cli/logging"
	"sportzone-cli/service"
	"sportzone-cli/session"
	"sportzone-cli/store"
	"sportzone-cli/tui"
)

// env is what every subcommand runs against. It is built once per
// invocation in the root's PersistentPreRunE.
type env struct {
	cfg     config.Config
	logger  *zap.Logger
	cache   store.Cache
	client  *service.Client
	session *session.Session
}

var current *env

var nowFunc = time.Now

var (
	buildVersion = "dev"
	buildCommit  = "none"
)

var rootCmd = &cobra.Command{
	Use:           "sportzone",
	Short:         "SportZone venue booking from the terminal",
	Long:          `Browse sports venues, pick free hours on a court and book them, all from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		current = e
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown(current)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		model := tui.New(tui.Deps{
			Client:  current.client,
			Config:  current.cfg,
			Session: current.session,
			Logger:  current.logger,
		})
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of the SportZone CLI",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(
		versionCmd,
		venuesCmd,
		venueCmd,
		slotsCmd,
		bookCmd,
		bookingsCmd,
		cancelCmd,
		loginCmd,
		signupCmd,
		logoutCmd,
		whoamiCmd,
		profileCmd,
	)
}

func versionString() string {
	s := config.AppName + " " + buildVersion
	if buildCommit != "none" && buildCommit != "" {
		s += " (" + buildCommit + ")"
	}
	return s
}

func setup(ctx context.Context, cmd *cobra.Command) (*env, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	cache, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Warn("cache unavailable, continuing without it", zap.Error(err))
		cache = nil
	}

	s, err := session.Load()
	if err != nil {
		logger.Warn("ignoring saved session", zap.Error(err))
		s = nil
	}

	client := service.FromConfig(cfg, logger, cache).WithSession(s)
	logger.Debug("command started", zap.String("command", cmd.CommandPath()), zap.String("api_url", cfg.APIURL))
	return &env{cfg: cfg, logger: logger, cache: cache, client: client, session: s}, nil
}

func teardown(e *env) {
	if e == nil {
		return
	}
	if closer, ok := e.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			e.logger.Debug("close cache", zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}

// requireSession returns the saved session, or an error telling the user to
// log in first.
func requireSession(e *env) (*session.Session, error) {
	if err := e.session.Require(nowFunc()); err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) || errors.Is(err, session.ErrExpired) {
			return nil, fmt.Errorf("%w: run `sportzone login`", err)
		}
		return nil, err
	}
	return e.session, nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(version string, commit string) {
	buildVersion, buildCommit = version, commit
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
