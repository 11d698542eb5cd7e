package core

import "errors"

// Errors surfaced at the operation boundary. Callers match them with errors.Is.
var (
	ErrCommitID          = errors.New("commit id error")
	ErrCheckout          = errors.New("checkout error")
	ErrBranch            = errors.New("branch error")
	ErrMerge             = errors.New("merge error")
	ErrNoCommits         = errors.New("no commits yet")
	ErrUnauthorizedPath  = errors.New("unauthorized path")
	ErrInconsistentState = errors.New("inconsistent repository state")
	ErrDataNotSaved      = errors.New(`not safe to checkout: there are changed files not staged for commit, or staged files not yet committed (run "wit status" for details)`)
)
