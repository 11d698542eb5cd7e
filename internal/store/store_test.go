package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	idA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	idB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	idC = "cccccccccccccccccccccccccccccccccccccccc"
)

// newTestStore creates an initialized store on an in-memory filesystem.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	st := New(memfs.New())
	require.NoError(t, st.Initialize())
	return st
}

func readLedger(t *testing.T, st *Store) string {
	t.Helper()
	data, err := util.ReadFile(st.fs, st.ledgerPath())
	require.NoError(t, err)
	return string(data)
}

// ==================== Store Tests ====================

func TestStore_Initialize(t *testing.T) {
	st := newTestStore(t)

	for _, dir := range []string{st.imagesPath(), st.stagingPath()} {
		fi, err := st.fs.Stat(dir)
		require.NoError(t, err)
		assert.True(t, fi.IsDir())
	}

	assert.Equal(t, "HEAD=None\nmaster=None\nadded=False\n", readLedger(t, st))

	branch, err := st.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestStore_InitializeKeepsExistingState(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idA, idA, true))
	require.NoError(t, st.SetCurrentBranch("feature"))

	require.NoError(t, st.Initialize())

	refs, err := st.ReadRefs()
	require.NoError(t, err)
	assert.Equal(t, idA, refs.Head)
	assert.True(t, refs.Added)

	branch, err := st.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

func TestStore_OpenOnDisk(t *testing.T) {
	root := t.TempDir()
	st := Open(root)
	require.NoError(t, st.Initialize())

	data, err := util.ReadFile(st.Worktree(), filepath.Join(config.WitDir, config.LedgerFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "HEAD=None")
}

// ==================== Ledger Tests ====================

func TestStore_ReadRefsMissingLedger(t *testing.T) {
	st := New(memfs.New())

	refs, err := st.ReadRefs()
	require.NoError(t, err)
	assert.Empty(t, refs.Head)
	assert.Empty(t, refs.Master)
	assert.False(t, refs.Added)
	assert.Empty(t, refs.Branches)
}

func TestStore_ReadRefs(t *testing.T) {
	st := newTestStore(t)
	ledger := "HEAD=" + idB + "\nmaster=" + idA + "\nadded=True\nfeature=" + idB + "\nempty=None\n"
	require.NoError(t, util.WriteFile(st.fs, st.ledgerPath(), []byte(ledger), 0644))

	refs, err := st.ReadRefs()
	require.NoError(t, err)
	assert.Equal(t, idB, refs.Head)
	assert.Equal(t, idA, refs.Master)
	assert.True(t, refs.Added)
	require.Len(t, refs.Branches, 2)
	assert.Equal(t, "feature", refs.Branches[0].Name)
	assert.Equal(t, idB, refs.Branches[0].CommitID)
	assert.Equal(t, "empty", refs.Branches[1].Name)
	assert.Empty(t, refs.Branches[1].CommitID)
}

func TestStore_ReadRefsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		ledger string
	}{
		{name: "line without separator", ledger: "HEAD=None\ngarbage\n"},
		{name: "bad added flag", ledger: "HEAD=None\nmaster=None\nadded=maybe\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := newTestStore(t)
			require.NoError(t, util.WriteFile(st.fs, st.ledgerPath(), []byte(tt.ledger), 0644))

			_, err := st.ReadRefs()
			assert.ErrorIs(t, err, ErrMalformedLedger)
		})
	}
}

func TestStore_WriteRefsPreservesBranches(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idA, idA, false))
	require.NoError(t, st.AddBranch("zeta", idA))
	require.NoError(t, st.AddBranch("alpha", idA))

	require.NoError(t, st.WriteRefs(idB, idA, true))

	expected := "HEAD=" + idB + "\nmaster=" + idA + "\nadded=True\nzeta=" + idA + "\nalpha=" + idA + "\n"
	assert.Equal(t, expected, readLedger(t, st))
}

func TestStore_WriteRefsKeepsHandEditedBranchLines(t *testing.T) {
	st := newTestStore(t)
	ledger := "HEAD=" + idA + "\nmaster=" + idA + "\nadded=False\nfeat = " + idA + "\nother=  None\n"
	require.NoError(t, util.WriteFile(st.fs, st.ledgerPath(), []byte(ledger), 0644))

	require.NoError(t, st.WriteRefs(idB, idB, true))

	expected := "HEAD=" + idB + "\nmaster=" + idB + "\nadded=True\nfeat = " + idA + "\nother=  None\n"
	assert.Equal(t, expected, readLedger(t, st))

	// A moved branch is written in canonical form
	moved, err := st.MoveBranch("feat", idA, idC)
	require.NoError(t, err)
	require.True(t, moved)

	expected = "HEAD=" + idB + "\nmaster=" + idB + "\nadded=True\nfeat=" + idC + "\nother=  None\n"
	assert.Equal(t, expected, readLedger(t, st))
}

func TestStore_SetAdded(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idA, idA, false))

	require.NoError(t, st.SetAdded(true))

	refs, err := st.ReadRefs()
	require.NoError(t, err)
	assert.True(t, refs.Added)
	assert.Equal(t, idA, refs.Head)
}

func TestStore_GetBranch(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idB, idA, false))
	require.NoError(t, st.AddBranch("feature", idC))

	id, ok, err := st.GetBranch("master")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, idA, id)

	id, ok, err = st.GetBranch("feature")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, idC, id)

	_, ok, err = st.GetBranch("HEAD")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = st.GetBranch("added")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_AddBranchDuplicate(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.AddBranch("feature", idA))

	assert.ErrorIs(t, st.AddBranch("feature", idB), ErrBranchExists)
	assert.ErrorIs(t, st.AddBranch("master", idB), ErrBranchExists)
}

func TestStore_ListBranches(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idA, idA, false))
	require.NoError(t, st.AddBranch("feature", idB))

	branches, err := st.ListBranches()
	require.NoError(t, err)
	require.Len(t, branches, 2)
	assert.Equal(t, "master", branches[0].Name)
	assert.Equal(t, idA, branches[0].CommitID)
	assert.Equal(t, "feature", branches[1].Name)
}

func TestStore_MoveBranch(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.WriteRefs(idA, idA, false))
	require.NoError(t, st.AddBranch("feature", idA))

	moved, err := st.MoveBranch("feature", idA, idB)
	require.NoError(t, err)
	assert.True(t, moved)

	// Stale expectation is a silent no-op
	moved, err = st.MoveBranch("feature", idA, idC)
	require.NoError(t, err)
	assert.False(t, moved)

	id, _, err := st.GetBranch("feature")
	require.NoError(t, err)
	assert.Equal(t, idB, id)

	moved, err = st.MoveBranch("master", idA, idC)
	require.NoError(t, err)
	assert.True(t, moved)

	moved, err = st.MoveBranch("missing", idA, idC)
	require.NoError(t, err)
	assert.False(t, moved)
}

// ==================== Marker Tests ====================

func TestStore_CurrentBranch(t *testing.T) {
	st := New(memfs.New())

	_, err := st.GetCurrentBranch()
	assert.ErrorIs(t, err, ErrNoActiveBranch)

	require.NoError(t, st.SetCurrentBranch("feature"))
	branch, err := st.GetCurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "feature", branch)
}

// ==================== Commits Tests ====================

func TestStore_CreateAndGetCommit(t *testing.T) {
	st := newTestStore(t)

	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.Local)
	commit := &models.Commit{
		ID:        idA,
		Message:   "Initial commit",
		Timestamp: ts,
	}
	require.NoError(t, st.CreateCommit(commit))

	data, err := util.ReadFile(st.fs, st.metadataPath(idA))
	require.NoError(t, err)
	assert.Equal(t, "parent=None\ndate=Tue Mar  5 14:07:09 2024\nmessage=Initial commit", string(data))

	got, err := st.GetCommit(idA)
	require.NoError(t, err)
	assert.Equal(t, idA, got.ID)
	assert.Empty(t, got.ParentID)
	assert.Equal(t, "Initial commit", got.Message)
	assert.True(t, ts.Equal(got.Timestamp))
}

func TestStore_CommitMetadataParents(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.CreateCommit(&models.Commit{ID: idB, ParentID: idA, Message: "child", Timestamp: time.Now()}))
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idC, ParentID: idB, MergeParentID: idA, Message: "merge", Timestamp: time.Now()}))

	child, err := st.GetCommit(idB)
	require.NoError(t, err)
	assert.Equal(t, []string{idA}, child.Parents())

	merge, err := st.GetCommit(idC)
	require.NoError(t, err)
	assert.True(t, merge.IsMergeCommit())
	assert.Equal(t, []string{idB, idA}, merge.Parents())
}

func TestStore_CommitMessageSpansLines(t *testing.T) {
	st := newTestStore(t)
	message := "subject\n\nbody line\nparent=not a header"

	require.NoError(t, st.CreateCommit(&models.Commit{ID: idA, Message: message, Timestamp: time.Now()}))

	got, err := st.GetCommit(idA)
	require.NoError(t, err)
	assert.Equal(t, message, got.Message)
}

func TestStore_GetCommitNotFound(t *testing.T) {
	st := newTestStore(t)

	_, err := st.GetCommit(idA)
	assert.ErrorIs(t, err, ErrCommitNotFound)

	_, err = st.GetCommit("")
	assert.ErrorIs(t, err, ErrCommitNotFound)
}

func TestStore_SnapshotStaging(t *testing.T) {
	st := newTestStore(t)
	staging, err := st.Staging()
	require.NoError(t, err)
	require.NoError(t, staging.MkdirAll("dir", 0755))
	require.NoError(t, util.WriteFile(staging, "dir/a.txt", []byte("x"), 0644))

	require.NoError(t, st.SnapshotStaging(idA))

	exists, err := st.SnapshotExists(idA)
	require.NoError(t, err)
	assert.True(t, exists)

	snapshot, err := st.Snapshot(idA)
	require.NoError(t, err)
	data, err := util.ReadFile(snapshot, "dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	// Later staging edits do not reach the snapshot
	require.NoError(t, util.WriteFile(staging, "dir/a.txt", []byte("changed"), 0644))
	data, err = util.ReadFile(snapshot, "dir/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestStore_SnapshotExists(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idB, Message: "metadata only", Timestamp: time.Now()}))

	for _, id := range []string{"", ".", "..", "../images", idA, idB} {
		exists, err := st.SnapshotExists(id)
		require.NoError(t, err)
		assert.False(t, exists, id)
	}

	taken, err := st.CommitExists(idB)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = st.CommitExists(idA)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestStore_GetCommitByShortID(t *testing.T) {
	st := newTestStore(t)
	ids := []string{"abc1230000000000000000000000000000000000", "abc4560000000000000000000000000000000000"}
	for _, id := range ids {
		require.NoError(t, st.fs.MkdirAll(st.snapshotPath(id), 0755))
		require.NoError(t, st.CreateCommit(&models.Commit{ID: id, Message: "m", Timestamp: time.Now()}))
	}

	full, err := st.GetCommitByShortID("abc1")
	require.NoError(t, err)
	assert.Equal(t, ids[0], full)

	_, err = st.GetCommitByShortID("abc")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = st.GetCommitByShortID("fff")
	assert.ErrorIs(t, err, ErrCommitNotFound)
}

func TestStore_History(t *testing.T) {
	st := newTestStore(t)
	// idA <- idB <- idC, where idC also merges a side commit
	side := "dddddddddddddddddddddddddddddddddddddddd"
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idA, Message: "1", Timestamp: time.Now()}))
	require.NoError(t, st.CreateCommit(&models.Commit{ID: side, ParentID: idA, Message: "side", Timestamp: time.Now()}))
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idB, ParentID: idA, Message: "2", Timestamp: time.Now()}))
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idC, ParentID: idB, MergeParentID: side, Message: "3", Timestamp: time.Now()}))

	chain, err := st.FirstParentChain(idC)
	require.NoError(t, err)
	assert.Equal(t, []string{idC, idB, idA}, chain)

	ancestors, err := st.GetAllAncestors(idC)
	require.NoError(t, err)
	assert.Len(t, ancestors, 4)
	assert.True(t, ancestors[side])

	log, err := st.GetCommitLog(idC, 2)
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "3", log[0].Message)
	assert.Equal(t, "2", log[1].Message)
}

func TestStore_FirstParentChainStopsAtMissingCommit(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, st.CreateCommit(&models.Commit{ID: idB, ParentID: idA, Message: "orphaned parent", Timestamp: time.Now()}))

	chain, err := st.FirstParentChain(idB)
	require.NoError(t, err)
	assert.Equal(t, []string{idB, idA}, chain)
}

// ==================== Staging Tests ====================

func TestStore_StageAndReset(t *testing.T) {
	st := newTestStore(t)
	require.NoError(t, util.WriteFile(st.fs, "a.txt", []byte("x"), 0644))
	require.NoError(t, st.Stage("a.txt"))
	require.NoError(t, st.SnapshotStaging(idA))

	require.NoError(t, util.WriteFile(st.fs, "b.txt", []byte("y"), 0644))
	require.NoError(t, st.Stage("b.txt"))

	require.NoError(t, st.ResetStaging(idA))

	staging, err := st.Staging()
	require.NoError(t, err)
	entries, err := staging.ReadDir("")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.txt", entries[0].Name())

	require.NoError(t, util.WriteFile(st.fs, "a.txt", []byte("local"), 0644))
	require.NoError(t, st.Stage("a.txt"))
	require.NoError(t, st.StageFromSnapshot(idA, "a.txt"))
	data, err := util.ReadFile(staging, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
