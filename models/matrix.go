// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoCandidates = errors.New("no candidates")
	ErrRowWidth     = errors.New("ballot row width does not match candidate count")
	ErrNotSquare    = errors.New("duel matrix is not square")
)

// BallotMatrix holds one row per ballot and one column per candidate
type BallotMatrix struct {
	Candidates []string
	Rows       [][]Mark
}

// NewBallotMatrix checks that every row has exactly one cell per candidate
func NewBallotMatrix(candidates []string, rows [][]Mark) (*BallotMatrix, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	for i, row := range rows {
		if len(row) != len(candidates) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d",
				ErrRowWidth, i, len(row), len(candidates))
		}
	}
	return &BallotMatrix{Candidates: candidates, Rows: rows}, nil
}

// BallotsFromInts builds a matrix from integer rows, -1 meaning abstention
func BallotsFromInts(candidates []string, rows [][]int) (*BallotMatrix, error) {
	marks := make([][]Mark, len(rows))
	for i, row := range rows {
		marks[i] = make([]Mark, len(row))
		for j, v := range row {
			marks[i][j] = MarkFromInt(v)
		}
	}
	return NewBallotMatrix(candidates, marks)
}

func (m *BallotMatrix) NumCandidates() int { return len(m.Candidates) }

func (m *BallotMatrix) NumBallots() int { return len(m.Rows) }

// Clone returns a deep copy so callers can filter columns without
// touching the original ballots
func (m *BallotMatrix) Clone() *BallotMatrix {
	rows := make([][]Mark, len(m.Rows))
	for i, row := range m.Rows {
		rows[i] = append([]Mark(nil), row...)
	}
	return &BallotMatrix{
		Candidates: append([]string(nil), m.Candidates...),
		Rows:       rows,
	}
}

// DuelMatrix is the pairwise preference tally: Wins(i, j) counts ballots
// ranking i strictly above j. It is immutable once built.
type DuelMatrix struct {
	candidates []string
	wins       [][]int
}

// NewDuelMatrix copies wins into a new matrix with a zero diagonal
func NewDuelMatrix(candidates []string, wins [][]int) (*DuelMatrix, error) {
	n := len(candidates)
	if n == 0 {
		return nil, ErrNoCandidates
	}
	if len(wins) != n {
		return nil, fmt.Errorf("%w: %d rows for %d candidates", ErrNotSquare, len(wins), n)
	}
	cp := make([][]int, n)
	for i, row := range wins {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNotSquare, i, len(row), n)
		}
		cp[i] = append([]int(nil), row...)
		cp[i][i] = 0
	}
	return &DuelMatrix{
		candidates: append([]string(nil), candidates...),
		wins:       cp,
	}, nil
}

func (d *DuelMatrix) Size() int { return len(d.candidates) }

func (d *DuelMatrix) Candidate(i int) string { return d.candidates[i] }

func (d *DuelMatrix) Candidates() []string {
	return append([]string(nil), d.candidates...)
}

func (d *DuelMatrix) Wins(i, j int) int { return d.wins[i][j] }

// Beats reports whether i wins its pairwise contest against j
func (d *DuelMatrix) Beats(i, j int) bool {
	return d.wins[i][j] > d.wins[j][i]
}

// Rows returns a copy of the tally
func (d *DuelMatrix) Rows() [][]int {
	out := make([][]int, len(d.wins))
	for i, row := range d.wins {
		out[i] = append([]int(nil), row...)
	}
	return out
}
