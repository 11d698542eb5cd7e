// Package store provides file-based persistence for wit.
// It manages the reference ledger, the activated-branch marker, commit
// snapshots with their metadata records, and the staging mirror, all
// inside the repository's .wit directory.
package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/kilupskalvis/wit/internal/config"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/tree"
)

// Store represents a repository on a filesystem rooted at the working tree.
type Store struct {
	fs billy.Filesystem
}

// New wraps a filesystem whose root is the repository root.
func New(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// Open opens the repository rooted at the given directory on disk.
func Open(root string) *Store {
	return New(osfs.New(root))
}

// Initialize creates the control subtree. Existing state is preserved.
func (s *Store) Initialize() error {
	for _, dir := range []string{s.imagesPath(), s.stagingPath()} {
		if err := s.fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	exists, err := tree.Exists(s.fs, s.markerPath())
	if err != nil {
		return err
	}
	if !exists {
		if err := s.SetCurrentBranch(models.DefaultBranch); err != nil {
			return err
		}
	}

	exists, err = tree.Exists(s.fs, s.ledgerPath())
	if err != nil {
		return err
	}
	if !exists {
		return s.WriteRefs("", "", false)
	}
	return nil
}

// Worktree returns the repository root filesystem. Callers comparing it
// against other trees must ignore config.WitDir.
func (s *Store) Worktree() billy.Filesystem {
	return s.fs
}

// Staging returns the staging mirror as its own filesystem.
func (s *Store) Staging() (billy.Filesystem, error) {
	return s.fs.Chroot(s.stagingPath())
}

// StagingPath returns the staging mirror's path relative to the repository root.
func (s *Store) StagingPath() string {
	return s.stagingPath()
}

// Stage copies a worktree path into the staging mirror at the same relative
// position, replacing whatever was staged there.
func (s *Store) Stage(rel string) error {
	return tree.Copy(s.fs, rel, s.fs, s.fs.Join(s.stagingPath(), rel), config.WitDir)
}

// StageFromSnapshot copies a path of a commit snapshot into the staging mirror.
func (s *Store) StageFromSnapshot(commitID, rel string) error {
	return tree.Copy(s.fs, s.fs.Join(s.snapshotPath(commitID), rel), s.fs, s.fs.Join(s.stagingPath(), rel))
}

// ResetStaging replaces the staging mirror wholesale with a commit snapshot.
func (s *Store) ResetStaging(commitID string) error {
	return tree.Copy(s.fs, s.snapshotPath(commitID), s.fs, s.stagingPath())
}

func (s *Store) path(elem ...string) string {
	return s.fs.Join(append([]string{config.WitDir}, elem...)...)
}

func (s *Store) imagesPath() string  { return s.path(config.ImagesDir) }
func (s *Store) stagingPath() string { return s.path(config.StagingDir) }
func (s *Store) ledgerPath() string  { return s.path(config.LedgerFile) }
func (s *Store) markerPath() string  { return s.path(config.MarkerFile) }

func (s *Store) snapshotPath(id string) string {
	return s.path(config.ImagesDir, id)
}

func (s *Store) metadataPath(id string) string {
	return s.path(config.ImagesDir, id+".txt")
}

// readFile returns nil data and no error for a missing file.
func (s *Store) readFile(path string) ([]byte, error) {
	data, err := util.ReadFile(s.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}
