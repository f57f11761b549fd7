package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-br-leaderboard/internal/config"
	"github.com/pable/go-br-leaderboard/internal/logging"
)

var (
	dbPath    string
	logLevel  string
	logFormat string

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "brleaderboard",
	Short: "Individual battle-royale tournament leaderboards",
	Long: `Fetch team results of a Yunite tournament, split them into one record per player,
score and rank them, and print, store or post the individual leaderboard.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. Ctrl-C cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	defaultDB := filepath.Join(mustUserHome(), ".brleaderboard", "leaderboard.db")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDB, "path to SQLite database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json (overrides LOG_FORMAT)")

	rootCmd.AddCommand(tournamentsCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(namesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup loads configuration and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	bootstrap, err := logging.New("info", "console", os.Stderr)
	if err != nil {
		return err
	}
	cfg, err = config.Load(bootstrap)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	logger, err = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return err
}

// ensureDBDir creates the parent directory of the database file.
func ensureDBDir() error {
	if dir := filepath.Dir(dbPath); dir != "" {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
