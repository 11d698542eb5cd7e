package store

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/kilupskalvis/wit/internal/models"
)

var (
	// ErrMalformedLedger is returned when the reference ledger cannot be parsed.
	ErrMalformedLedger = errors.New("malformed reference ledger")
	// ErrBranchExists is returned when adding a name the ledger already holds.
	ErrBranchExists = errors.New("branch already exists")
)

// ReadRefs parses the reference ledger. A missing ledger reads as an
// unborn repository.
func (s *Store) ReadRefs() (*models.Refs, error) {
	data, err := s.readFile(s.ledgerPath())
	if err != nil {
		return nil, fmt.Errorf("read reference ledger: %w", err)
	}
	return parseLedger(data)
}

// WriteRefs rewrites HEAD, master and the added flag, keeping every branch
// line in its original order. The ledger is created if needed.
func (s *Store) WriteRefs(head, master string, added bool) error {
	refs, err := s.ReadRefs()
	if err != nil {
		return err
	}
	refs.Head = head
	refs.Master = master
	refs.Added = added
	return s.saveRefs(refs)
}

// SetAdded updates only the added flag.
func (s *Store) SetAdded(added bool) error {
	refs, err := s.ReadRefs()
	if err != nil {
		return err
	}
	refs.Added = added
	return s.saveRefs(refs)
}

// GetHEAD returns the current HEAD commit ID, empty before the first commit.
func (s *Store) GetHEAD() (string, error) {
	refs, err := s.ReadRefs()
	if err != nil {
		return "", err
	}
	return refs.Head, nil
}

// GetBranch resolves a branch name, including master, to its commit ID.
func (s *Store) GetBranch(name string) (string, bool, error) {
	refs, err := s.ReadRefs()
	if err != nil {
		return "", false, err
	}
	if name == models.RefHEAD {
		return "", false, nil
	}
	id, ok := refs.Lookup(name)
	return id, ok, nil
}

// ListBranches returns master followed by the user branches in ledger order.
func (s *Store) ListBranches() ([]*models.Branch, error) {
	refs, err := s.ReadRefs()
	if err != nil {
		return nil, err
	}
	branches := []*models.Branch{{Name: models.RefMaster, CommitID: refs.Master}}
	return append(branches, refs.Branches...), nil
}

// AddBranch appends a branch line. It refuses names already in the ledger,
// reserved ones included, with ErrBranchExists. Other name rules are the
// caller's concern.
func (s *Store) AddBranch(name, commitID string) error {
	refs, err := s.ReadRefs()
	if err != nil {
		return err
	}
	if _, exists := refs.Lookup(name); exists {
		return fmt.Errorf("%w: %q", ErrBranchExists, name)
	}
	refs.Branches = append(refs.Branches, &models.Branch{Name: name, CommitID: commitID})
	return s.saveRefs(refs)
}

// MoveBranch points name at to, but only when it currently points at from.
// A mismatch leaves the ledger untouched and reports false.
func (s *Store) MoveBranch(name, from, to string) (bool, error) {
	refs, err := s.ReadRefs()
	if err != nil {
		return false, err
	}

	switch {
	case name == models.RefMaster:
		if refs.Master != from {
			return false, nil
		}
		refs.Master = to
	default:
		b := refs.Branch(name)
		if b == nil || b.CommitID != from {
			return false, nil
		}
		b.CommitID = to
	}

	return true, s.saveRefs(refs)
}

func (s *Store) saveRefs(refs *models.Refs) error {
	if err := util.WriteFile(s.fs, s.ledgerPath(), formatLedger(refs), 0644); err != nil {
		return fmt.Errorf("write reference ledger: %w", err)
	}
	return nil
}

func parseLedger(data []byte) (*models.Refs, error) {
	refs := &models.Refs{}
	for i, raw := range strings.Split(string(data), "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedLedger, i+1, line)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		switch name {
		case models.RefHEAD:
			refs.Head = fromLedgerID(value)
		case models.RefMaster:
			refs.Master = fromLedgerID(value)
		case models.RefAdded:
			switch value {
			case "True":
				refs.Added = true
			case "False", models.NoneValue:
				refs.Added = false
			default:
				return nil, fmt.Errorf("%w: line %d: bad added flag %q", ErrMalformedLedger, i+1, value)
			}
		default:
			refs.Branches = append(refs.Branches, &models.Branch{Name: name, CommitID: fromLedgerID(value), Line: raw})
		}
	}
	return refs, nil
}

func formatLedger(refs *models.Refs) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s=%s\n", models.RefHEAD, toLedgerID(refs.Head))
	fmt.Fprintf(&buf, "%s=%s\n", models.RefMaster, toLedgerID(refs.Master))
	added := "False"
	if refs.Added {
		added = "True"
	}
	fmt.Fprintf(&buf, "%s=%s\n", models.RefAdded, added)
	for _, b := range refs.Branches {
		if b.Line != "" && lineValue(b.Line) == b.CommitID {
			buf.WriteString(b.Line + "\n")
			continue
		}
		fmt.Fprintf(&buf, "%s=%s\n", b.Name, toLedgerID(b.CommitID))
	}
	return buf.Bytes()
}

// lineValue returns the commit id a branch line points at.
func lineValue(line string) string {
	_, value, _ := strings.Cut(line, "=")
	return fromLedgerID(strings.TrimSpace(value))
}

func fromLedgerID(value string) string {
	if value == models.NoneValue {
		return ""
	}
	return value
}

func toLedgerID(id string) string {
	if id == "" {
		return models.NoneValue
	}
	return id
}
