package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/util"
)

// ErrNoActiveBranch is returned when the activated-branch marker is missing.
var ErrNoActiveBranch = errors.New("activated-branch marker not found")

// GetCurrentBranch returns the name of the activated branch.
func (s *Store) GetCurrentBranch() (string, error) {
	data, err := s.readFile(s.markerPath())
	if err != nil {
		return "", fmt.Errorf("read activated branch: %w", err)
	}
	if data == nil {
		return "", ErrNoActiveBranch
	}
	return strings.TrimSpace(string(data)), nil
}

// SetCurrentBranch records name as the activated branch.
func (s *Store) SetCurrentBranch(name string) error {
	if err := util.WriteFile(s.fs, s.markerPath(), []byte(name), 0644); err != nil {
		return fmt.Errorf("write activated branch: %w", err)
	}
	return nil
}
