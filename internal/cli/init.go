package cli

import (
	"fmt"
	"os"

	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new wit repository",
	Long: `Initialize a new wit repository in the current directory.
This creates a .wit directory holding snapshots, the staging area and
the reference ledger. Running it again leaves existing state alone.`,
	Args: cobra.NoArgs,
	Run:  runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	cwd, err := os.Getwd()
	if err != nil {
		exitError("failed to get working directory: %v", err)
	}

	cfg, st, err := core.Init(cwd)
	if err != nil {
		exitError("failed to initialize repository: %v", err)
	}
	setupLogger(cfg.LogLevel)

	fmt.Printf("Initialized wit repository in %s\n", cfg.WitPath())
	if branch, err := st.GetCurrentBranch(); err == nil {
		fmt.Printf("Activated branch: %s\n", branch)
	}
}
