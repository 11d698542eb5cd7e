package core

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/kilupskalvis/wit/internal/tree"
)

// CheckoutOptions configures checkout behavior
type CheckoutOptions struct {
	Force bool // Skip the clean-worktree check
}

// CheckoutResult contains the result of a checkout operation
type CheckoutResult struct {
	PreviousCommit string
	TargetCommit   string
	BranchName     string // Empty if the target was not a branch
	FilesWritten   int
	FilesRemoved   int
	FilesSkipped   int // Target files left alone because an untracked path occupies them
}

// Checkout transplants a branch or commit onto the worktree. Untracked
// files are never overwritten or removed.
func Checkout(st *store.Store, target string, opts CheckoutOptions) (*CheckoutResult, error) {
	refs, err := st.ReadRefs()
	if err != nil {
		return nil, err
	}

	// Step 1: Resolve target to commit ID and determine if branch
	targetCommitID, branchName, err := ResolveRef(st, target)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCheckout, err)
	}

	// Step 2: Validate the snapshot exists
	exists, err := st.SnapshotExists(targetCommitID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: commit id or branch not found: %s", ErrCheckout, target)
	}

	// Step 3: Check for uncommitted changes (unless forced)
	status, err := Status(st)
	if err != nil {
		return nil, fmt.Errorf("failed to check for changes: %w", err)
	}
	if !opts.Force && !status.IsClean() {
		return nil, ErrDataNotSaved
	}

	result := &CheckoutResult{
		PreviousCommit: refs.Head,
		TargetCommit:   targetCommitID,
		BranchName:     branchName,
	}

	// Step 4: Restore the worktree around the untracked paths
	untracked := newUntrackedSet(status.Untracked)
	if err := restoreWorktree(st, targetCommitID, untracked, result); err != nil {
		return nil, fmt.Errorf("failed to restore worktree: %w", err)
	}

	// Step 5: Update HEAD, keep master, clear the added flag
	if err := st.WriteRefs(targetCommitID, refs.Master, false); err != nil {
		return nil, err
	}

	// Step 6: Staging now mirrors the checked-out commit
	if err := st.ResetStaging(targetCommitID); err != nil {
		return nil, fmt.Errorf("failed to reset staging area: %w", err)
	}

	if branchName != "" {
		if err := st.SetCurrentBranch(branchName); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// restoreWorktree removes tracked files absent from the target, then writes
// every target file that no untracked path occupies.
func restoreWorktree(st *store.Store, commitID string, untracked *untrackedSet, result *CheckoutResult) error {
	snapshot, err := st.Snapshot(commitID)
	if err != nil {
		return err
	}
	wt := st.Worktree()

	targetFiles, err := tree.Files(snapshot)
	if err != nil {
		return err
	}
	inTarget := make(map[string]bool, len(targetFiles))
	for _, f := range targetFiles {
		inTarget[f] = true
	}

	currentFiles, err := tree.Files(wt, config.WitDir)
	if err != nil {
		return err
	}
	for _, f := range currentFiles {
		if inTarget[f] || untracked.covers(f) {
			continue
		}
		if err := wt.Remove(f); err != nil {
			return fmt.Errorf("remove %s: %w", f, err)
		}
		slog.Debug("removed tracked file", "path", f)
		result.FilesRemoved++
	}

	for _, f := range targetFiles {
		if untracked.conflicts(f) {
			slog.Debug("kept untracked path", "path", f)
			result.FilesSkipped++
			continue
		}
		if err := tree.Copy(snapshot, f, wt, f); err != nil {
			return err
		}
		result.FilesWritten++
	}

	targetDirs, err := tree.Dirs(snapshot)
	if err != nil {
		return err
	}
	return pruneEmptyDirs(wt, targetDirs, untracked)
}

// pruneEmptyDirs removes directories emptied by checkout, deepest first.
func pruneEmptyDirs(wt billy.Filesystem, keep []string, untracked *untrackedSet) error {
	dirs, err := tree.Dirs(wt, config.WitDir)
	if err != nil {
		return err
	}

	for _, dir := range slices.Backward(dirs) {
		if slices.Contains(keep, dir) || untracked.conflicts(dir) {
			continue
		}
		entries, err := wt.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read directory %s: %w", dir, err)
		}
		if len(entries) == 0 {
			if err := wt.Remove(dir); err != nil {
				return fmt.Errorf("remove %s: %w", dir, err)
			}
		}
	}
	return nil
}

// untrackedSet answers whether a path is, or lies beneath, an untracked entry.
type untrackedSet struct {
	paths []string
}

func newUntrackedSet(entries []tree.Entry) *untrackedSet {
	return &untrackedSet{paths: tree.Paths(entries)}
}

func (u *untrackedSet) covers(path string) bool {
	for _, p := range u.paths {
		if path == p || isUnder(path, p) {
			return true
		}
	}
	return false
}

// conflicts also reports paths that contain an untracked entry.
func (u *untrackedSet) conflicts(path string) bool {
	if u.covers(path) {
		return true
	}
	for _, p := range u.paths {
		if isUnder(p, path) {
			return true
		}
	}
	return false
}

func isUnder(path, dir string) bool {
	return strings.HasPrefix(path, dir+string(filepath.Separator))
}
