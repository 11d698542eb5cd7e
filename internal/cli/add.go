package cli

import (
	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add files to the staging area",
	Long: `Copy files or directories from the working tree into the staging area.
Paths are relative to the current directory.

Examples:
  wit add .                 Stage everything in the repository
  wit add src               Stage the src directory
  wit add notes.txt         Stage a single file`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAdd,
}

func runAdd(cmd *cobra.Command, args []string) {
	c := initContext()
	st := c.Store
	green := color.New(color.FgGreen)

	for _, arg := range args {
		rel, err := core.ResolveWorktreePath(c.Config.Root(), c.Cwd, arg)
		if err != nil {
			exitError("%v", err)
		}
		if err := core.Add(st, rel); err != nil {
			exitError("%v", err)
		}
	}

	green.Printf("Staged %d path(s)\n", len(args))
}
