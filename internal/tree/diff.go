// Package tree compares and copies directory trees held in billy
// filesystems. All paths it reports are relative to the tree root.
package tree

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/xxh3"
)

// Entry is a path found on one side of a comparison
type Entry struct {
	Path  string
	IsDir bool
}

// Result holds the classified differences between a left and a right tree
type Result struct {
	LeftOnly  []Entry  // present under left, absent under right
	RightOnly []Entry  // present under right, absent under left
	Modified  []string // present on both sides with different content or type
	Common    []string // files present on both sides with identical content
}

// Paths returns the paths of the given entries
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// Changed returns left-only paths followed by modified paths: everything the
// left tree adds or alters relative to the right tree.
func (r *Result) Changed() []string {
	out := Paths(r.LeftOnly)
	return append(out, r.Modified...)
}

// Diff recursively compares left and right. Entries whose base name is in
// ignore are skipped at every level.
func Diff(left, right billy.Filesystem, ignore ...string) (*Result, error) {
	d := &differ{left: left, right: right, ignore: ignore}
	result := &Result{}
	if err := d.compareDir("", result); err != nil {
		return nil, err
	}
	return result, nil
}

type differ struct {
	left   billy.Filesystem
	right  billy.Filesystem
	ignore []string
}

func (d *differ) compareDir(dir string, result *Result) error {
	leftEntries, err := readDir(d.left, dir, d.ignore)
	if err != nil {
		return err
	}
	rightEntries, err := readDir(d.right, dir, d.ignore)
	if err != nil {
		return err
	}

	rightByName := make(map[string]os.FileInfo, len(rightEntries))
	for _, fi := range rightEntries {
		rightByName[fi.Name()] = fi
	}
	leftNames := make(map[string]bool, len(leftEntries))

	var subdirs []string
	for _, lfi := range leftEntries {
		name := lfi.Name()
		leftNames[name] = true
		rel := d.left.Join(dir, name)

		rfi, ok := rightByName[name]
		if !ok {
			result.LeftOnly = append(result.LeftOnly, Entry{Path: rel, IsDir: lfi.IsDir()})
			continue
		}

		switch {
		case lfi.IsDir() && rfi.IsDir():
			subdirs = append(subdirs, rel)
		case lfi.IsDir() != rfi.IsDir():
			result.Modified = append(result.Modified, rel)
		default:
			same, err := d.sameFile(rel, lfi, rfi)
			if err != nil {
				return err
			}
			if same {
				result.Common = append(result.Common, rel)
			} else {
				result.Modified = append(result.Modified, rel)
			}
		}
	}

	for _, rfi := range rightEntries {
		if !leftNames[rfi.Name()] {
			result.RightOnly = append(result.RightOnly, Entry{Path: d.right.Join(dir, rfi.Name()), IsDir: rfi.IsDir()})
		}
	}

	for _, sub := range subdirs {
		if err := d.compareDir(sub, result); err != nil {
			return err
		}
	}
	return nil
}

// sameFile decides on size first and only reads content when sizes match.
func (d *differ) sameFile(rel string, lfi, rfi os.FileInfo) (bool, error) {
	if lfi.Size() != rfi.Size() {
		return false, nil
	}

	leftSum, err := Digest(d.left, rel)
	if err != nil {
		return false, err
	}
	rightSum, err := Digest(d.right, rel)
	if err != nil {
		return false, err
	}
	return leftSum == rightSum, nil
}

// Digest returns the xxh3-128 digest of a file's content
func Digest(fs billy.Basic, path string) (xxh3.Uint128, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return xxh3.Uint128{}, fmt.Errorf("read %s: %w", path, err)
	}
	return xxh3.Hash128(data), nil
}

// readDir lists a directory sorted by name. A missing directory reads as empty.
func readDir(fs billy.Filesystem, dir string, ignore []string) ([]os.FileInfo, error) {
	entries, err := fs.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read directory %q: %w", dir, err)
	}

	out := entries[:0]
	for _, fi := range entries {
		if !slices.Contains(ignore, fi.Name()) {
			out = append(out, fi)
		}
	}
	slices.SortFunc(out, func(a, b os.FileInfo) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out, nil
}
