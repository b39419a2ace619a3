// Package cli implements the gridlake command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gridlake/internal/app"
	"gridlake/internal/config"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// cliEnv carries the resolved configuration and root logger into commands.
// Commands that touch the catalog open the app per invocation and own Close.
type cliEnv struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (e *cliEnv) openApp() (*app.App, error) {
	return app.New(e.cfg, e.logger)
}

func newRootCmd() *cobra.Command {
	// Flag defaults come from the environment, so precedence is
	// flag > env > built-in default.
	cfg := config.LoadFromEnv()
	env := &cliEnv{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:   "gridlake",
		Short: "Sheet catalog and cross-sheet query preview engine",
		Long: `gridlake registers CSV and Excel worksheets into a local catalog and runs
join, filter, and aggregation previews across them without a database engine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			env.logger = newLogger(cfg)
			for _, warning := range cfg.Warnings {
				env.logger.Warn(warning)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite catalog file")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log output format (text, json)")

	rootCmd.AddCommand(newRegisterCmd(env))
	rootCmd.AddCommand(newSheetsCmd(env))
	rootCmd.AddCommand(newPreviewCmd(env))
	rootCmd.AddCommand(newQueriesCmd(env))
	rootCmd.AddCommand(newStatsCmd(env))
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(os.Stdout, "gridlake version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}
