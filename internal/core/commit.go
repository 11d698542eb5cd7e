package core

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/store"
)

// CommitIDLength is the number of hex symbols in a commit ID
const CommitIDLength = 40

// generateCommitID is swapped out by tests that exercise id collisions.
var generateCommitID = randomCommitID

// CreateCommit snapshots the staging area as a new commit. A non-empty
// secondParent makes it a merge commit. When nothing was added since the
// last commit it returns a nil commit and no error.
func CreateCommit(cfg *config.Config, st *store.Store, message, secondParent string) (*models.Commit, error) {
	refs, err := st.ReadRefs()
	if err != nil {
		return nil, err
	}

	if !refs.Added {
		return nil, nil
	}

	activeBranch, err := st.GetCurrentBranch()
	if errors.Is(err, store.ErrNoActiveBranch) {
		return nil, fmt.Errorf("%w: %v", ErrInconsistentState, err)
	}
	if err != nil {
		return nil, err
	}

	commitID, err := allocateCommitID(st, cfg.IDRetries)
	if err != nil {
		return nil, err
	}

	return finalizeCommit(st, refs, activeBranch, commitID, message, secondParent)
}

// finalizeCommit moves the references, writes the metadata record and
// materializes the snapshot, in that order.
func finalizeCommit(st *store.Store, refs *models.Refs, activeBranch, commitID, message, secondParent string) (*models.Commit, error) {
	head := refs.Head

	// A branch keeps following HEAD only while it points at HEAD.
	if activeBranch != models.RefMaster {
		moved, err := st.MoveBranch(activeBranch, head, commitID)
		if err != nil {
			return nil, fmt.Errorf("update branch %s: %w", activeBranch, err)
		}
		if moved {
			slog.Debug("advanced branch", "branch", activeBranch, "commit", commitID)
		} else {
			slog.Debug("branch left behind", "branch", activeBranch, "head", head)
		}
	}

	master := refs.Master
	if head == refs.Master && activeBranch == models.RefMaster {
		master = commitID
	}

	if err := st.WriteRefs(commitID, master, false); err != nil {
		return nil, err
	}

	commit := &models.Commit{
		ID:        commitID,
		ParentID:  head,
		Message:   message,
		Timestamp: time.Now(),
	}
	if secondParent != "" {
		commit.MergeParentID = secondParent
	}

	if err := st.CreateCommit(commit); err != nil {
		return nil, err
	}

	if err := st.SnapshotStaging(commitID); err != nil {
		return nil, fmt.Errorf("snapshot staging area: %w", err)
	}

	slog.Info("created commit", "commit", commitID, "parents", commit.Parents())
	return commit, nil
}

// allocateCommitID draws random ids until one is unused. It gives up with
// ErrCommitID after retries further attempts.
func allocateCommitID(st *store.Store, retries int) (string, error) {
	var id string
	for attempt := 0; attempt <= retries; attempt++ {
		candidate, err := generateCommitID()
		if err != nil {
			return "", err
		}
		id = candidate

		taken, err := st.CommitExists(id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
		slog.Debug("commit id collision, retrying", "id", id, "attempt", attempt+1)
	}
	return "", fmt.Errorf("%w: no unused commit id found after %d attempts (last tried %s)", ErrCommitID, retries+1, id)
}

func randomCommitID() (string, error) {
	buf := make([]byte, CommitIDLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate commit id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
