package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <branch>",
	Short: "Merge a branch into HEAD",
	Long: `Merge the specified branch into HEAD.

Every path the branch changed since the common ancestor is taken from
the branch, then a merge commit with two parents is created and checked
out. Set ancestry = "full" in .wit/config to search the ancestor across
every parent instead of first parents only.

Examples:
  wit merge feature           # Merge 'feature' into HEAD`,
	Args: cobra.ExactArgs(1),
	Run:  runMerge,
}

func runMerge(cmd *cobra.Command, args []string) {
	c := initContext()

	result, err := core.Merge(c.Config, c.Store, args[0])
	if err != nil {
		exitError("%v", err)
	}

	if result.UpToDate {
		fmt.Println("Already up to date.")
		return
	}

	green := color.New(color.FgGreen)
	fmt.Printf("Merged '%s' (common ancestor %s)\n", args[0], shortID(result.Base))
	fmt.Printf("  Merge commit: %s\n", shortID(result.Commit.ID))
	for _, path := range result.Changed {
		green.Printf("  %s\n", path)
	}
}
