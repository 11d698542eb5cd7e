package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/kilupskalvis/wit/internal/core"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show commit history",
	Long:  `Display the first-parent history of HEAD.`,
	Args:  cobra.NoArgs,
	Run:   runLog,
}

var (
	logOneline bool
	logLimit   int
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each commit on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of commits to show")
}

func runLog(cmd *cobra.Command, args []string) {
	c := initContext()

	commits, err := core.Log(c.Store, logLimit)
	if err != nil {
		exitError("failed to get commit log: %v", err)
	}

	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return
	}

	head, _ := c.Store.GetHEAD()
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, commit := range commits {
		isHead := commit.ID == head

		if logOneline {
			yellow.Printf("%s ", commit.ShortID())
			if isHead {
				cyan.Print("(HEAD) ")
			}
			fmt.Println(commit.Message)
			continue
		}

		yellow.Printf("commit %s", commit.ID)
		if isHead {
			cyan.Print(" (HEAD)")
		}
		fmt.Println()
		if commit.IsMergeCommit() {
			fmt.Printf("Merge:  %s %s\n", shortID(commit.ParentID), shortID(commit.MergeParentID))
		}
		fmt.Printf("Date:   %s\n", commit.Timestamp.Format(store.DateLayout))
		fmt.Printf("\n    %s\n\n", commit.Message)
	}
}
