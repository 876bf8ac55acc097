package models

import (
	"errors"
	"fmt"
	"time"
)

// Voting method selectors
const (
	MethodFPTPOneRound = "uni1"
	MethodFPTPTwoRound = "uni2"
	MethodMinimax      = "cm"
	MethodPairwise     = "cp"
	MethodSchulze      = "cs"
	MethodJudgement    = "jm"
	MethodAll          = "all"
)

var ErrUnknownMethod = errors.New("unknown method")

// ParseMethod validates a method selector string
func ParseMethod(s string) (string, error) {
	switch s {
	case MethodFPTPOneRound, MethodFPTPTwoRound, MethodMinimax, MethodPairwise,
		MethodSchulze, MethodJudgement, MethodAll:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Mark is a single ballot cell. Cast is false for an abstention.
type Mark struct {
	Value int
	Cast  bool
}

// Abstain is the "no opinion" mark, written as -1 in ballot files
var Abstain = Mark{}

// Vote returns a cast mark with the given rank or grade
func Vote(v int) Mark {
	return Mark{Value: v, Cast: true}
}

// MarkFromInt maps the -1 sentinel to Abstain
func MarkFromInt(v int) Mark {
	if v == -1 {
		return Abstain
	}
	return Vote(v)
}

// Better reports whether m is ranked strictly better (lower) than o.
// An abstention on either side is never better.
func (m Mark) Better(o Mark) bool {
	return m.Cast && o.Cast && m.Value < o.Value
}

type CandidateScore struct {
	Candidate int `json:"candidate"`
	Score     int `json:"score"`
}

// Round is one FPTP tally: reduced first-preference rows plus a totals row
type Round struct {
	Rows     [][]int `json:"-"`
	Totals   []int   `json:"totals"`
	Eligible []bool  `json:"-"`
}

// Votes returns the number of ballots that cast a first-preference vote
func (r Round) Votes() int {
	sum := 0
	for _, v := range r.Totals {
		sum += v
	}
	return sum
}

type TwoRoundResult struct {
	First     Round `json:"first"`
	Finalists []int `json:"finalists"`
	Second    Round `json:"second"`
}

// Report types

type Standing struct {
	Candidate string  `json:"candidate"`
	Votes     int     `json:"votes"`
	Share     float64 `json:"share"`
}

type RoundReport struct {
	Standings []Standing `json:"standings"`
	Total     int        `json:"total"`
}

type FPTPReport struct {
	Rounds    []RoundReport `json:"rounds"`
	Finalists []string      `json:"finalists"`
}

type ScoreEntry struct {
	Candidate string   `json:"candidate"`
	Score     int      `json:"score"`
	Graders   *int     `json:"graders,omitempty"`
	Median    *float64 `json:"median_grade,omitempty"`
}

type WinnerReport struct {
	Method    string `json:"method"`
	Candidate string `json:"candidate"`
}

type CondorcetReport struct {
	Duel      [][]int        `json:"duel"`
	Winner    *string        `json:"winner,omitempty"`
	Fallbacks []WinnerReport `json:"fallbacks,omitempty"`
}

type Report struct {
	RunID       string           `json:"run_id"`
	Method      string           `json:"method"`
	Source      string           `json:"source"`
	Candidates  []string         `json:"candidates"`
	BallotCount int              `json:"ballot_count"`
	ComputedAt  time.Time        `json:"computed_at"`
	FPTP        *FPTPReport      `json:"fptp,omitempty"`
	Condorcet   *CondorcetReport `json:"condorcet,omitempty"`
	Pairwise    []ScoreEntry     `json:"pairwise,omitempty"`
	Judgement   []ScoreEntry     `json:"majority_judgement,omitempty"`
}
