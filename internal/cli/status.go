package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/kilupskalvis/wit/internal/tree"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Long: `Show what will be committed, what changed since it was added, and
which files were never added.`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	st := c.Store

	status, err := core.Status(st)
	if err != nil {
		exitError("failed to compute status: %v", err)
	}
	state, err := core.GetHeadState(st)
	if err != nil {
		exitError("%v", err)
	}

	if state.IsDetached {
		fmt.Printf("HEAD detached at %s (activated branch: %s)\n", shortID(status.Head), status.Branch)
	} else {
		fmt.Printf("On branch %s\n", status.Branch)
	}
	if status.Head == "" {
		fmt.Println("No commits yet")
	} else {
		fmt.Printf("Commit: %s\n", shortID(status.Head))
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(status.ToBeCommitted) > 0 {
		fmt.Println("\nChanges to be committed:")
		fmt.Println()
		for _, path := range status.ToBeCommitted {
			green.Printf("        %s\n", path)
		}
	}

	if len(status.NotStaged) > 0 || len(status.Missing) > 0 {
		fmt.Println("\nChanges not staged for commit:")
		cyan.Println("  (use \"wit add <path>\" to stage)")
		fmt.Println()
		for _, path := range status.NotStaged {
			yellow.Printf("        modified: %s\n", path)
		}
		for _, path := range status.Missing {
			red.Printf("        missing:  %s\n", path)
		}
	}

	if len(status.Untracked) > 0 {
		fmt.Println("\nUntracked files:")
		cyan.Println("  (use \"wit add <path>\" to include in what will be committed)")
		fmt.Println()
		for _, entry := range status.Untracked {
			red.Printf("        %s\n", untrackedLabel(entry))
		}
	}

	if status.IsClean() {
		fmt.Println("\nNothing to commit, working tree clean")
	}
}

func untrackedLabel(entry tree.Entry) string {
	if entry.IsDir {
		return entry.Path + "/"
	}
	return entry.Path
}
