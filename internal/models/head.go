package models

// Refs is the parsed reference ledger
type Refs struct {
	Head     string    // Current commit ID, empty before the first commit
	Master   string    // Tip of the default branch, empty before the first commit
	Added    bool      // Staging area differs from HEAD since the last commit
	Branches []*Branch // User branches in ledger order
}

// Branch returns the user branch with the given name, or nil
func (r *Refs) Branch(name string) *Branch {
	for _, b := range r.Branches {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// Lookup resolves a pointer name to its commit id. master resolves like a
// branch; added is a flag, not a pointer.
func (r *Refs) Lookup(name string) (string, bool) {
	switch name {
	case RefHEAD:
		return r.Head, true
	case RefMaster:
		return r.Master, true
	case RefAdded:
		return "", false
	}
	if b := r.Branch(name); b != nil {
		return b.CommitID, true
	}
	return "", false
}

// HeadState represents the current HEAD position
type HeadState struct {
	CommitID   string // Current commit ID
	BranchName string // Activated branch
	IsDetached bool   // True if the activated branch does not point at HEAD
}
