// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"errors"
	"fmt"
	"sort"

	"github.com/danielhkuo/quickly-tally/models"
)

var (
	ErrDuplicateCandidate = errors.New("duplicate candidate name")
	ErrUnknownCandidate   = errors.New("unknown candidate")
)

// CompareNames orders candidate names ignoring ASCII case and skipping
// spaces, tabs, carriage returns, newlines and NUL bytes. When one name is a
// prefix of the other, the shorter one sorts first.
func CompareNames(a, b string) int {
	i, j := 0, 0
	for {
		for i < len(a) && skippable(a[i]) {
			i++
		}
		for j < len(b) && skippable(b[j]) {
			j++
		}
		switch {
		case i == len(a) && j == len(b):
			return 0
		case i == len(a):
			return -1
		case j == len(b):
			return 1
		}

		ca, cb := foldASCII(a[i]), foldASCII(b[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}
}

func skippable(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == 0
}

func foldASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// TallyEntry is one candidate's count in a VoteTally
type TallyEntry struct {
	Candidate string
	Votes     int
}

// VoteTally is a candidate→count list kept sorted by CompareNames so lookups
// are binary searches
type VoteTally struct {
	entries []TallyEntry
}

// NewVoteTally creates a tally with every candidate at zero votes. Names that
// compare equal are rejected, reporting both names and their 1-based columns.
func NewVoteTally(candidates []string) (*VoteTally, error) {
	t := &VoteTally{entries: make([]TallyEntry, 0, len(candidates))}
	for i, c := range candidates {
		pos, found := t.search(c)
		if found {
			first := 0
			for first < i && CompareNames(candidates[first], c) != 0 {
				first++
			}
			return nil, fmt.Errorf("%w: %q (column %d) and %q (column %d)",
				ErrDuplicateCandidate, candidates[first], first+1, c, i+1)
		}
		t.entries = append(t.entries, TallyEntry{})
		copy(t.entries[pos+1:], t.entries[pos:])
		t.entries[pos] = TallyEntry{Candidate: c}
	}
	return t, nil
}

func (t *VoteTally) search(name string) (int, bool) {
	pos := sort.Search(len(t.entries), func(i int) bool {
		return CompareNames(t.entries[i].Candidate, name) >= 0
	})
	return pos, pos < len(t.entries) && CompareNames(t.entries[pos].Candidate, name) == 0
}

// Get returns the count for a candidate
func (t *VoteTally) Get(name string) (int, bool) {
	pos, found := t.search(name)
	if !found {
		return 0, false
	}
	return t.entries[pos].Votes, true
}

// Set overwrites a candidate's count
func (t *VoteTally) Set(name string, votes int) error {
	pos, found := t.search(name)
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, name)
	}
	t.entries[pos].Votes = votes
	return nil
}

// Add adds votes to a candidate's count
func (t *VoteTally) Add(name string, votes int) error {
	pos, found := t.search(name)
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, name)
	}
	t.entries[pos].Votes += votes
	return nil
}

// Remove drops a candidate from the tally
func (t *VoteTally) Remove(name string) error {
	pos, found := t.search(name)
	if !found {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, name)
	}
	t.entries = append(t.entries[:pos], t.entries[pos+1:]...)
	return nil
}

func (t *VoteTally) Len() int { return len(t.entries) }

// Entries returns a copy of the tally in name order
func (t *VoteTally) Entries() []TallyEntry {
	return append([]TallyEntry(nil), t.entries...)
}

// TwoRoundsByName computes the same two-round election as TwoRounds but keeps
// counts in a name-keyed VoteTally. The returned tally only holds the runoff
// candidates, with their round-two counts.
func TwoRoundsByName(b *models.BallotMatrix) (*VoteTally, error) {
	results, err := NewVoteTally(b.Candidates)
	if err != nil {
		return nil, err
	}

	first := ReduceFirstPreferences(b.Rows)
	for j, name := range b.Candidates {
		for _, row := range first {
			if err := results.Add(name, row[j]); err != nil {
				return nil, err
			}
		}
	}

	// Read totals back in column order for runoff selection
	totals := make([]int, b.NumCandidates())
	for j, name := range b.Candidates {
		totals[j], _ = results.Get(name)
	}
	finalists := RunoffCandidates(totals, nil)

	if len(finalists) != 1 {
		second := ReduceFirstPreferences(KeepColumns(b, finalists).Rows)
		for j, name := range b.Candidates {
			if err := results.Set(name, 0); err != nil {
				return nil, err
			}
			for _, row := range second {
				if err := results.Add(name, row[j]); err != nil {
					return nil, err
				}
			}
		}
	}

	kept := make(map[int]bool, len(finalists))
	for _, f := range finalists {
		kept[f] = true
	}
	for j, name := range b.Candidates {
		if !kept[j] {
			if err := results.Remove(name); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
