package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/kilupskalvis/wit/internal/tree"
)

// MergeMessage is the message of every merge commit
const MergeMessage = "--merged--"

// Merge reconciles a branch into HEAD. Every path the branch added or
// changed since the common ancestor is taken from the branch, then a
// two-parent commit is created and checked out.
func Merge(cfg *config.Config, st *store.Store, branchName string) (*models.MergeResult, error) {
	// Step 1: Check for uncommitted changes
	hasChanges, err := HasUncommittedChanges(st)
	if err != nil {
		return nil, err
	}
	if hasChanges {
		return nil, ErrDataNotSaved
	}

	refs, err := st.ReadRefs()
	if err != nil {
		return nil, err
	}

	// Step 2: Resolve the source branch
	source, ok := refs.Lookup(branchName)
	if !ok || source == "" {
		return nil, fmt.Errorf("%w: branch '%s' not found", ErrCommitID, branchName)
	}

	// Step 3: Require HEAD
	head := refs.Head
	if head == "" {
		return nil, fmt.Errorf("%w: HEAD commit not found", ErrCommitID)
	}

	result := &models.MergeResult{Source: source}
	if source == head {
		result.UpToDate = true
		return result, nil
	}

	// Step 4: Find merge base
	base, err := FindMergeBase(st, head, source, cfg.Ancestry)
	if err != nil {
		return nil, err
	}
	if base == "" {
		return nil, fmt.Errorf("%w: no common ancestor with '%s'", ErrMerge, branchName)
	}
	result.Base = base
	slog.Debug("merge base selected", "head", head, "source", source, "base", base, "ancestry", cfg.Ancestry)

	// Step 5: Collect what the source changed relative to the base
	sourceSnapshot, err := st.Snapshot(source)
	if err != nil {
		return nil, err
	}
	baseSnapshot, err := st.Snapshot(base)
	if err != nil {
		return nil, err
	}
	diff, err := tree.Diff(sourceSnapshot, baseSnapshot)
	if err != nil {
		return nil, fmt.Errorf("compare %s with merge base: %w", branchName, err)
	}

	// Step 6: Source wins on every changed path
	if err := st.WriteRefs(head, refs.Master, true); err != nil {
		return nil, err
	}
	for _, path := range diff.Changed() {
		if err := st.StageFromSnapshot(source, path); err != nil {
			return nil, fmt.Errorf("failed to stage %s from %s: %w", path, branchName, err)
		}
		result.Changed = append(result.Changed, path)
	}

	// Step 7: Two-parent commit
	commit, err := CreateCommit(cfg, st, MergeMessage, source)
	if err != nil {
		return nil, err
	}
	if commit == nil {
		return nil, fmt.Errorf("%w: merge produced no commit", ErrInconsistentState)
	}
	result.Commit = commit

	// Step 8: Force the worktree to match the merge commit
	if _, err := Checkout(st, commit.ID, CheckoutOptions{Force: true}); err != nil {
		return nil, fmt.Errorf("failed to check out merge commit: %w", err)
	}

	return result, nil
}

// FindMergeBase finds the nearest common ancestor of two commits. In
// first-parent mode only first parents are followed; in full mode every
// parent of every commit is.
func FindMergeBase(st *store.Store, commitA, commitB, ancestry string) (string, error) {
	if ancestry == config.AncestryFull {
		return findMergeBaseFull(st, commitA, commitB)
	}
	return findMergeBaseFirstParent(st, commitA, commitB)
}

func findMergeBaseFirstParent(st *store.Store, commitA, commitB string) (string, error) {
	chainA, err := st.FirstParentChain(commitA)
	if err != nil {
		return "", err
	}
	chainB, err := st.FirstParentChain(commitB)
	if err != nil {
		return "", err
	}

	inB := make(map[string]bool, len(chainB))
	for _, id := range chainB {
		inB[id] = true
	}
	for _, id := range chainA {
		if inB[id] {
			return id, nil
		}
	}
	return "", nil
}

func findMergeBaseFull(st *store.Store, commitA, commitB string) (string, error) {
	// Get all ancestors of A
	ancestorsA, err := st.GetAllAncestors(commitA)
	if err != nil {
		return "", err
	}

	// BFS from B, looking for first ancestor in A's set
	queue := []string{commitB}
	visited := make(map[string]bool)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == "" || visited[current] {
			continue
		}
		visited[current] = true

		if ancestorsA[current] {
			return current, nil
		}

		commit, err := st.GetCommit(current)
		if errors.Is(err, store.ErrCommitNotFound) {
			continue
		}
		if err != nil {
			return "", err
		}
		queue = append(queue, commit.Parents()...)
	}

	return "", nil
}
