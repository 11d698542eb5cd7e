package models

// MergeResult contains the outcome of a merge operation
type MergeResult struct {
	Commit   *Commit  // The merge commit (nil when already up to date)
	Base     string   // Common ancestor used for reconciliation
	Source   string   // Commit that was merged in
	Changed  []string // Paths copied from the source into staging
	UpToDate bool     // Source already equals HEAD
}
