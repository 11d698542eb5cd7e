package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the staging area as a new commit",
	Long: `Create a new commit from the staging area.

Nothing happens when no file was added since the last commit.`,
	Args: cobra.NoArgs,
	Run:  runCommit,
}

var commitMessage string

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required)")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) {
	c := initContext()

	commit, err := core.CreateCommit(c.Config, c.Store, commitMessage, "")
	if err != nil {
		exitError("%v", err)
	}
	if commit == nil {
		fmt.Println("Nothing to commit (use \"wit add\" to stage files)")
		return
	}

	green := color.New(color.FgGreen)
	green.Printf("[%s] %s\n", shortID(commit.ID), commit.Message)
}
