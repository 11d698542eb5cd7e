// Package cli implements the command-line interface for wit.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands
type cmdContext struct {
	Config *config.Config
	Store  *store.Store
	Cwd    string
}

// initContext locates the repository around the working directory and
// loads its config and store
func initContext() *cmdContext {
	cwd, err := os.Getwd()
	if err != nil {
		exitError("failed to get working directory: %v", err)
	}

	root, err := config.FindRoot(cwd, true)
	if err != nil {
		exitError("%v", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		exitError("%v", err)
	}
	setupLogger(cfg.LogLevel)

	return &cmdContext{Config: cfg, Store: store.Open(root), Cwd: cwd}
}

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "wit",
	Short: "A small local version control system",
	Long: `wit tracks a working directory across snapshots. It keeps a staging
area, named branches and two-parent merges inside a .wit directory.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the repository config")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(mergeCmd)
}

// setupLogger installs a text handler on stderr. The --log-level flag wins
// over the configured level.
func setupLogger(configured string) {
	name := configured
	if logLevel != "" {
		name = logLevel
	}

	var level slog.Level
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
