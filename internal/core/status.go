package core

import (
	"fmt"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/kilupskalvis/wit/internal/tree"
)

// StatusResult holds the three status views of a repository, plus tracked
// files missing from the worktree. All paths are relative to the repository root.
type StatusResult struct {
	Head          string
	Branch        string
	ToBeCommitted []string
	NotStaged     []string
	Untracked     []tree.Entry
	Missing       []string
}

// IsClean reports whether nothing is staged or changed since the last add
func (s *StatusResult) IsClean() bool {
	return len(s.ToBeCommitted) == 0 && len(s.NotStaged) == 0
}

// Status computes what will be committed, what changed since the last add,
// and what was never added.
func Status(st *store.Store) (*StatusResult, error) {
	head, err := st.GetHEAD()
	if err != nil {
		return nil, err
	}
	branch, _ := st.GetCurrentBranch()

	result := &StatusResult{Head: head, Branch: branch}

	result.ToBeCommitted, err = toBeCommitted(st, head)
	if err != nil {
		return nil, err
	}

	staging, err := st.Staging()
	if err != nil {
		return nil, err
	}
	worktreeDiff, err := tree.Diff(st.Worktree(), staging, config.WitDir)
	if err != nil {
		return nil, fmt.Errorf("compare worktree with staging area: %w", err)
	}
	result.NotStaged = worktreeDiff.Modified
	result.Untracked = worktreeDiff.LeftOnly
	result.Missing = tree.Paths(worktreeDiff.RightOnly)

	return result, nil
}

// HasUncommittedChanges checks if there are staged-but-uncommitted or
// changed-but-unstaged files
func HasUncommittedChanges(st *store.Store) (bool, error) {
	status, err := Status(st)
	if err != nil {
		return false, err
	}
	return !status.IsClean(), nil
}

// toBeCommitted lists staged paths not yet in HEAD's snapshot. Before the
// first commit every staged file counts.
func toBeCommitted(st *store.Store, head string) ([]string, error) {
	staging, err := st.Staging()
	if err != nil {
		return nil, err
	}

	if head == "" {
		return tree.Files(staging)
	}

	snapshot, err := st.Snapshot(head)
	if err != nil {
		return nil, err
	}
	diff, err := tree.Diff(staging, snapshot)
	if err != nil {
		return nil, fmt.Errorf("compare staging area with %s: %w", head, err)
	}
	return diff.Changed(), nil
}
