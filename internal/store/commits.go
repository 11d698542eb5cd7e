package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/kilupskalvis/wit/internal/models"
	"github.com/kilupskalvis/wit/internal/tree"
)

// DateLayout is the timestamp format of commit metadata records.
const DateLayout = time.ANSIC

// ErrCommitNotFound is returned when a commit has no metadata record.
var ErrCommitNotFound = errors.New("commit not found")

// CreateCommit writes the metadata record of a commit.
func (s *Store) CreateCommit(commit *models.Commit) error {
	parent := models.NoneValue
	if parents := commit.Parents(); len(parents) > 0 {
		parent = strings.Join(parents, ",")
	}

	record := fmt.Sprintf("parent=%s\ndate=%s\nmessage=%s",
		parent, commit.Timestamp.Format(DateLayout), commit.Message)

	if err := util.WriteFile(s.fs, s.metadataPath(commit.ID), []byte(record), 0644); err != nil {
		return fmt.Errorf("write commit %s: %w", commit.ID, err)
	}
	return nil
}

// GetCommit reads a commit's metadata record.
func (s *Store) GetCommit(id string) (*models.Commit, error) {
	if id == "" {
		return nil, ErrCommitNotFound
	}
	data, err := s.readFile(s.metadataPath(id))
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrCommitNotFound, id)
	}
	return parseCommit(id, string(data))
}

// SnapshotStaging materializes the staging mirror as the snapshot of id.
func (s *Store) SnapshotStaging(id string) error {
	return tree.Copy(s.fs, s.stagingPath(), s.fs, s.snapshotPath(id))
}

// Snapshot returns a commit's snapshot directory as its own filesystem.
func (s *Store) Snapshot(id string) (billy.Filesystem, error) {
	return s.fs.Chroot(s.snapshotPath(id))
}

// SnapshotExists reports whether a snapshot directory exists for id.
func (s *Store) SnapshotExists(id string) (bool, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return false, nil
	}
	fi, err := s.fs.Stat(s.snapshotPath(id))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}

// CommitExists reports whether id is taken by a snapshot or a metadata record.
func (s *Store) CommitExists(id string) (bool, error) {
	if exists, err := s.SnapshotExists(id); err != nil || exists {
		return exists, err
	}
	return tree.Exists(s.fs, s.metadataPath(id))
}

// GetCommitByShortID resolves a unique commit ID prefix.
func (s *Store) GetCommitByShortID(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrCommitNotFound)
	}
	entries, err := s.fs.ReadDir(s.imagesPath())
	if err != nil {
		return "", fmt.Errorf("read images: %w", err)
	}

	var match string
	for _, fi := range entries {
		if !fi.IsDir() || !strings.HasPrefix(fi.Name(), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("ambiguous commit prefix %q", prefix)
		}
		match = fi.Name()
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrCommitNotFound, prefix)
	}
	return match, nil
}

// GetCommitLog returns the first-parent history starting at id, newest
// first. A limit of zero means no limit.
func (s *Store) GetCommitLog(id string, limit int) ([]*models.Commit, error) {
	var commits []*models.Commit
	for id != "" && (limit <= 0 || len(commits) < limit) {
		commit, err := s.GetCommit(id)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
		id = commit.ParentID
	}
	return commits, nil
}

// FirstParentChain returns id followed by its first-parent ancestors. The
// walk ends at a root commit or at a commit without a metadata record.
func (s *Store) FirstParentChain(id string) ([]string, error) {
	var chain []string
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		chain = append(chain, id)

		commit, err := s.GetCommit(id)
		if errors.Is(err, ErrCommitNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		id = commit.ParentID
	}
	return chain, nil
}

// GetAllAncestors returns all ancestor commit IDs via BFS, handling merge commits
func (s *Store) GetAllAncestors(commitID string) (map[string]bool, error) {
	ancestors := make(map[string]bool)
	queue := []string{commitID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == "" || ancestors[current] {
			continue
		}
		ancestors[current] = true

		commit, err := s.GetCommit(current)
		if errors.Is(err, ErrCommitNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		queue = append(queue, commit.Parents()...)
	}

	return ancestors, nil
}

func parseCommit(id, record string) (*models.Commit, error) {
	commit := &models.Commit{ID: id}
	lines := strings.Split(record, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "parent="):
			parent := strings.TrimSpace(strings.TrimPrefix(line, "parent="))
			if parent == models.NoneValue {
				continue
			}
			first, second, _ := strings.Cut(parent, ",")
			commit.ParentID = strings.TrimSpace(first)
			commit.MergeParentID = strings.TrimSpace(second)
		case strings.HasPrefix(line, "date="):
			ts, err := time.ParseInLocation(DateLayout, strings.TrimPrefix(line, "date="), time.Local)
			if err == nil {
				commit.Timestamp = ts
			}
		case strings.HasPrefix(line, "message="):
			rest := append([]string{strings.TrimPrefix(line, "message=")}, lines[i+1:]...)
			commit.Message = strings.Join(rest, "\n")
			return commit, nil
		}
	}
	return commit, nil
}
