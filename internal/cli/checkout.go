package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch|commit>",
	Short: "Switch branches or restore the working tree",
	Long: `Switch to a branch or check out a specific commit.
Files that were never added are left untouched.

Examples:
  wit checkout feature       # Switch to the feature branch
  wit checkout abc1234       # Check out a specific commit
  wit checkout HEAD~2        # Two commits back along first parents
  wit checkout -f master     # Force checkout, discarding uncommitted changes`,
	Args: cobra.ExactArgs(1),
	Run:  runCheckout,
}

var checkoutForce bool

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "Force checkout, discarding local changes")
}

func runCheckout(cmd *cobra.Command, args []string) {
	c := initContext()

	result, err := core.Checkout(c.Store, args[0], core.CheckoutOptions{Force: checkoutForce})
	if err != nil {
		exitError("%v", err)
	}

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	if result.BranchName != "" {
		green.Printf("Switched to branch '%s'\n", result.BranchName)
	} else {
		yellow.Printf("HEAD is now at %s\n", shortID(result.TargetCommit))
	}

	fmt.Printf("  %d written, %d removed\n", result.FilesWritten, result.FilesRemoved)
	if result.FilesSkipped > 0 {
		yellow.Printf("  %d file(s) kept because an untracked path is in the way\n", result.FilesSkipped)
	}
}
