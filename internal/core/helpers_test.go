package core

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an initialized in-memory repository.
func newTestRepo(t *testing.T) (*config.Config, *store.Store) {
	t.Helper()
	st := store.New(memfs.New())
	require.NoError(t, st.Initialize())
	return config.Default(), st
}

func writeFile(t *testing.T, st *store.Store, path, content string) {
	t.Helper()
	wt := st.Worktree()
	if dir := parentOf(path); dir != "" {
		require.NoError(t, wt.MkdirAll(dir, 0755))
	}
	require.NoError(t, util.WriteFile(wt, path, []byte(content), 0644))
}

func readFile(t *testing.T, st *store.Store, path string) string {
	t.Helper()
	data, err := util.ReadFile(st.Worktree(), path)
	require.NoError(t, err)
	return string(data)
}

func fileExists(t *testing.T, st *store.Store, path string) bool {
	t.Helper()
	_, err := st.Worktree().Stat(path)
	return err == nil
}

// addAndCommit stages the given paths and commits them.
func addAndCommit(t *testing.T, cfg *config.Config, st *store.Store, message string, paths ...string) *models.Commit {
	t.Helper()
	for _, p := range paths {
		require.NoError(t, Add(st, p))
	}
	commit, err := CreateCommit(cfg, st, message, "")
	require.NoError(t, err)
	require.NotNil(t, commit)
	return commit
}

func parentOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return ""
}
