package models

import "strings"

// Reserved reference names. They occupy the first three ledger lines.
const (
	RefHEAD   = "HEAD"
	RefMaster = "master"
	RefAdded  = "added"
)

// DefaultBranch is the branch activated by init
const DefaultBranch = RefMaster

// Branch represents a named reference to a commit
type Branch struct {
	Name     string `json:"name"`
	CommitID string `json:"commit_id"`
	Line     string `json:"-"` // Ledger line as read; rewritten only when CommitID changes
}

// IsReservedName reports whether name can never be used for a user branch
func IsReservedName(name string) bool {
	switch name {
	case RefHEAD, RefMaster, RefAdded, "":
		return true
	}
	return false
}

// ValidBranchName reports whether name can be stored as a ledger line
func ValidBranchName(name string) bool {
	if IsReservedName(name) {
		return false
	}
	return strings.TrimSpace(name) == name && !strings.ContainsAny(name, "=\r\n")
}
