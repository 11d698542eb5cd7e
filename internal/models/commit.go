// Package models defines the core data structures used throughout wit
// including commits, references, and merge results.
package models

import "time"

// NoneValue is the ledger spelling of an absent commit id
const NoneValue = "None"

// Commit represents an immutable snapshot record
type Commit struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parent_id,omitempty"`
	MergeParentID string    `json:"merge_parent_id,omitempty"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
}

// ShortID returns a shortened commit ID (first 7 characters)
func (c *Commit) ShortID() string {
	if len(c.ID) > 7 {
		return c.ID[:7]
	}
	return c.ID
}

// IsMergeCommit returns true if this commit has two parents
func (c *Commit) IsMergeCommit() bool {
	return c.MergeParentID != ""
}

// Parents returns the commit's parent ids, first parent first
func (c *Commit) Parents() []string {
	switch {
	case c.ParentID == "":
		return nil
	case c.MergeParentID == "":
		return []string{c.ParentID}
	default:
		return []string{c.ParentID, c.MergeParentID}
	}
}
