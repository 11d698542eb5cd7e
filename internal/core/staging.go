package core

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/store"
	"github.com/kilupskalvis/wit/internal/tree"
)

// ResolveWorktreePath turns a user-supplied path, relative to cwd, into a
// path relative to the repository root.
func ResolveWorktreePath(root, cwd, path string) (string, error) {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(cwd, path)
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnauthorizedPath, path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s is outside the repository", ErrUnauthorizedPath, path)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// Add copies a worktree file or directory, given relative to the repository
// root, into the staging area and marks the staging area as changed. An
// empty path stages every top-level entry.
func Add(st *store.Store, rel string) error {
	rel = filepath.Clean(rel)
	if rel == "." {
		rel = ""
	}
	if slices.Contains(strings.Split(filepath.ToSlash(rel), "/"), config.WitDir) {
		return fmt.Errorf("%w: %s", ErrUnauthorizedPath, rel)
	}

	wt := st.Worktree()
	if rel == "" {
		entries, err := wt.ReadDir("")
		if err != nil {
			return fmt.Errorf("read worktree: %w", err)
		}
		for _, fi := range entries {
			if fi.Name() == config.WitDir {
				continue
			}
			if err := st.Stage(fi.Name()); err != nil {
				return fmt.Errorf("failed to stage %s: %w", fi.Name(), err)
			}
		}
	} else {
		exists, err := tree.Exists(wt, rel)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("path does not exist: %s", rel)
		}
		if err := st.Stage(rel); err != nil {
			return fmt.Errorf("failed to stage %s: %w", rel, err)
		}
	}

	slog.Debug("staged path", "path", rel)
	return st.SetAdded(true)
}
