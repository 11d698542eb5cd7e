package tree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const defaultFileMode os.FileMode = 0644

// Copy copies a file or a whole directory from src to dst, replacing
// whatever already occupies dstPath. Parent directories are created as
// needed. Entries named in ignore are skipped inside copied directories.
func Copy(src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string, ignore ...string) error {
	fi, err := src.Stat(srcPath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", srcPath, err)
	}

	if existing, err := dst.Stat(dstPath); err == nil {
		if existing.IsDir() || fi.IsDir() {
			if err := util.RemoveAll(dst, dstPath); err != nil {
				return fmt.Errorf("remove %s: %w", dstPath, err)
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", dstPath, err)
	}

	if fi.IsDir() {
		return copyDir(src, srcPath, dst, dstPath, ignore)
	}
	return copyFile(src, srcPath, dst, dstPath, fi.Mode())
}

func copyDir(src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string, ignore []string) error {
	if err := dst.MkdirAll(dstPath, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dstPath, err)
	}

	entries, err := readDir(src, srcPath, ignore)
	if err != nil {
		return err
	}

	for _, fi := range entries {
		from := src.Join(srcPath, fi.Name())
		to := dst.Join(dstPath, fi.Name())
		if fi.IsDir() {
			err = copyDir(src, from, dst, to, ignore)
		} else {
			err = copyFile(src, from, dst, to, fi.Mode())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src billy.Filesystem, srcPath string, dst billy.Filesystem, dstPath string, mode os.FileMode) error {
	data, err := util.ReadFile(src, srcPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", srcPath, err)
	}

	if dir := parentDir(dstPath); dir != "" {
		if err := dst.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = defaultFileMode
	}
	if err := util.WriteFile(dst, dstPath, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	return nil
}

// Files lists every regular file below the root of fs, skipping ignored names.
func Files(fs billy.Filesystem, ignore ...string) ([]string, error) {
	var files []string
	err := walk(fs, "", ignore, func(rel string, fi os.FileInfo) error {
		if !fi.IsDir() {
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

// Dirs lists every directory below the root of fs, parents before children.
func Dirs(fs billy.Filesystem, ignore ...string) ([]string, error) {
	var dirs []string
	err := walk(fs, "", ignore, func(rel string, fi os.FileInfo) error {
		if fi.IsDir() {
			dirs = append(dirs, rel)
		}
		return nil
	})
	return dirs, err
}

// Exists reports whether path exists in fs
func Exists(fs billy.Basic, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func walk(fs billy.Filesystem, dir string, ignore []string, fn func(rel string, fi os.FileInfo) error) error {
	entries, err := readDir(fs, dir, ignore)
	if err != nil {
		return err
	}
	for _, fi := range entries {
		rel := fs.Join(dir, fi.Name())
		if err := fn(rel, fi); err != nil {
			return err
		}
		if fi.IsDir() {
			if err := walk(fs, rel, ignore, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func parentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}
