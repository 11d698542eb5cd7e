package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/store"
)

// ListBranches returns all branches with the activated branch name
func ListBranches(st *store.Store) ([]*models.Branch, string, error) {
	branches, err := st.ListBranches()
	if err != nil {
		return nil, "", err
	}

	currentBranch, err := st.GetCurrentBranch()
	if err != nil && !errors.Is(err, store.ErrNoActiveBranch) {
		return nil, "", err
	}

	return branches, currentBranch, nil
}

// CreateBranch creates a new branch pointing at the current HEAD
func CreateBranch(st *store.Store, name string) error {
	if !models.ValidBranchName(name) {
		return fmt.Errorf("%w: unauthorized branch name %q", ErrBranch, name)
	}

	refs, err := st.ReadRefs()
	if err != nil {
		return err
	}

	if _, exists := refs.Lookup(name); exists {
		return fmt.Errorf("%w: branch '%s' already exists", ErrBranch, name)
	}

	if refs.Head == "" {
		return fmt.Errorf("%w: cannot create branch '%s'", ErrNoCommits, name)
	}

	if err := st.AddBranch(name, refs.Head); err != nil {
		if errors.Is(err, store.ErrBranchExists) {
			return fmt.Errorf("%w: %v", ErrBranch, err)
		}
		return err
	}
	return nil
}

// GetHeadState describes where HEAD is relative to the activated branch
func GetHeadState(st *store.Store) (*models.HeadState, error) {
	refs, err := st.ReadRefs()
	if err != nil {
		return nil, err
	}
	branch, err := st.GetCurrentBranch()
	if err != nil && !errors.Is(err, store.ErrNoActiveBranch) {
		return nil, err
	}

	tip, _ := refs.Lookup(branch)
	return &models.HeadState{
		CommitID:   refs.Head,
		BranchName: branch,
		IsDetached: refs.Head != "" && tip != refs.Head,
	}, nil
}

// ResolveRef resolves a ref (branch name or commit ID) to a commit ID
// Returns (commitID, branchName, error) where branchName is empty if ref is a commit
// Supports: branch names, HEAD, HEAD~N, full/short commit IDs. A branch
// whose name looks like HEAD~N wins over the relative form.
func ResolveRef(st *store.Store, ref string) (commitID string, branchName string, err error) {
	// Try as branch first
	id, ok, err := st.GetBranch(ref)
	if err != nil {
		return "", "", err
	}
	if ok && id != "" {
		return id, ref, nil
	}

	// Then HEAD or HEAD~N
	if ref == models.RefHEAD || strings.HasPrefix(ref, "HEAD~") {
		commitID, err := resolveHEADRef(st, ref)
		return commitID, "", err
	}

	// Try as full commit ID
	exists, err := st.SnapshotExists(ref)
	if err != nil {
		return "", "", err
	}
	if exists || len(ref) == CommitIDLength {
		return ref, "", nil
	}

	// Try as short commit ID
	full, err := st.GetCommitByShortID(ref)
	if err != nil {
		return ref, "", nil
	}
	return full, "", nil
}

// resolveHEADRef resolves HEAD or HEAD~N to a commit ID
func resolveHEADRef(st *store.Store, ref string) (string, error) {
	head, err := st.GetHEAD()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head == "" {
		return "", fmt.Errorf("%w: HEAD not set", ErrNoCommits)
	}

	// If just "HEAD", return current HEAD
	if ref == models.RefHEAD {
		return head, nil
	}

	// Parse HEAD~N
	nStr := strings.TrimPrefix(ref, "HEAD~")
	n, err := strconv.Atoi(nStr)
	if err != nil {
		return "", fmt.Errorf("invalid ref '%s': expected HEAD~N where N is a number", ref)
	}
	if n < 0 {
		return "", fmt.Errorf("invalid ref '%s': N must be non-negative", ref)
	}

	// Walk back N commits following primary parent chain
	commitID := head
	for i := 0; i < n; i++ {
		commit, err := st.GetCommit(commitID)
		if err != nil {
			return "", fmt.Errorf("failed to get commit %s: %w", commitID, err)
		}
		if commit.ParentID == "" {
			return "", fmt.Errorf("cannot resolve %s: reached root commit after %d step(s)", ref, i)
		}
		commitID = commit.ParentID
	}

	return commitID, nil
}

// Log returns the first-parent history from HEAD, newest first
func Log(st *store.Store, limit int) ([]*models.Commit, error) {
	head, err := st.GetHEAD()
	if err != nil {
		return nil, err
	}
	return st.GetCommitLog(head, limit)
}
