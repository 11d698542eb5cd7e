package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch [name]",
	Short: "List or create branches",
	Long: `Manage branches in the wit repository.

Without arguments, lists all branches.
With a name argument, creates a new branch at HEAD.

Examples:
  wit branch              # List all branches
  wit branch feature      # Create 'feature' branch at HEAD`,
	Args: cobra.MaximumNArgs(1),
	Run:  runBranch,
}

func runBranch(cmd *cobra.Command, args []string) {
	c := initContext()
	st := c.Store

	// Create branch
	if len(args) > 0 {
		name := args[0]
		err := core.CreateBranch(st, name)
		if errors.Is(err, core.ErrNoCommits) {
			color.New(color.FgYellow).Printf("Cannot create branch '%s': commit something first\n", name)
			return
		}
		if err != nil {
			exitError("%v", err)
		}

		head, _ := st.GetHEAD()
		fmt.Printf("Created branch '%s' at %s\n", name, shortID(head))
		return
	}

	// List branches
	branches, currentBranch, err := core.ListBranches(st)
	if err != nil {
		exitError("failed to list branches: %v", err)
	}

	green := color.New(color.FgGreen)
	for _, branch := range branches {
		target := "(no commits)"
		if branch.CommitID != "" {
			target = shortID(branch.CommitID)
		}
		if branch.Name == currentBranch {
			green.Printf("* %s %s\n", branch.Name, target)
		} else {
			fmt.Printf("  %s %s\n", branch.Name, target)
		}
	}
}
