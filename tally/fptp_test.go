// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-tally/models"
)

func mustBallots(t *testing.T, names []string, rows [][]int) *models.BallotMatrix {
	t.Helper()
	b, err := models.BallotsFromInts(names, rows)
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}
	return b
}

func TestReduceFirstPreferences(t *testing.T) {
	tests := []struct {
		name string
		row  []int
		want []int
	}{
		{"unique minimum", []int{2, 1, 3}, []int{0, 1, 0}},
		{"tied minimum spoils ballot", []int{1, 1, 3}, []int{0, 0, 0}},
		{"abstentions ignored", []int{-1, 3, 2}, []int{0, 0, 1}},
		{"tie among remaining ranks", []int{-1, 2, 2}, []int{0, 0, 0}},
		{"blank ballot", []int{-1, -1, -1}, []int{0, 0, 0}},
		{"ranks need not start at one", []int{5, 4, 9}, []int{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBallots(t, []string{"A", "B", "C"}, [][]int{tt.row})
			got := ReduceFirstPreferences(b.Rows)
			if diff := cmp.Diff([][]int{tt.want}, got); diff != "" {
				t.Errorf("Reduced row mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOneRound(t *testing.T) {
	b := mustBallots(t, []string{"A", "B"}, [][]int{
		{1, 2},
		{1, 2},
		{2, 1},
		{1, 2},
		{1, 2},
	})

	round := OneRound(b)

	if diff := cmp.Diff([]int{4, 1}, round.Totals); diff != "" {
		t.Errorf("Totals mismatch (-want +got):\n%s", diff)
	}
	if round.Votes() != 5 {
		t.Errorf("Expected 5 votes, got %d", round.Votes())
	}
}

func TestOneRound_TotalsCountUniqueMinimumBallots(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	names := []string{"A", "B", "C", "D"}

	for trial := 0; trial < 100; trial++ {
		b := randomBallots(t, rng, names, rng.Intn(25))

		unique := 0
		for _, row := range b.Rows {
			best, count := 0, 0
			for _, m := range row {
				switch {
				case !m.Cast:
				case count == 0 || m.Value < best:
					best, count = m.Value, 1
				case m.Value == best:
					count++
				}
			}
			if count == 1 {
				unique++
			}
		}

		if got := OneRound(b).Votes(); got != unique {
			t.Fatalf("trial %d: totals sum to %d, want %d", trial, got, unique)
		}
	}
}

func TestRunoffCandidates(t *testing.T) {
	tests := []struct {
		name     string
		totals   []int
		eligible []bool
		want     []int
	}{
		{"absolute majority goes alone", []int{4, 1}, nil, []int{0}},
		{"exactly half is not a majority", []int{2, 2}, nil, []int{0, 1}},
		{"top two", []int{1, 5, 3, 2}, nil, []int{1, 2}},
		{"tie for first keeps earliest", []int{3, 3, 2}, nil, []int{0, 1}},
		{"tie for second keeps earliest", []int{2, 3, 3}, nil, []int{1, 2}},
		{"three-way tie", []int{5, 5, 5}, nil, []int{0, 1}},
		{"no votes", []int{0, 0, 0}, nil, []int{0, 1}},
		{"single candidate", []int{0}, nil, []int{0}},
		{"ineligible ignored", []int{0, 4, 0, 3}, []bool{false, true, false, true}, []int{1}},
		{"ineligible not selected", []int{9, 2, 2}, []bool{false, true, true}, []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunoffCandidates(tt.totals, tt.eligible)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RunoffCandidates(%v) mismatch (-want +got):\n%s", tt.totals, diff)
			}
		})
	}
}

func TestKeepColumns(t *testing.T) {
	b := mustBallots(t, []string{"A", "B", "C"}, [][]int{{1, 2, 3}})

	filtered := KeepColumns(b, []int{1, 2})

	want := []models.Mark{models.Abstain, models.Vote(2), models.Vote(3)}
	if diff := cmp.Diff(want, filtered.Rows[0]); diff != "" {
		t.Errorf("Filtered row mismatch (-want +got):\n%s", diff)
	}
	if !b.Rows[0][0].Cast {
		t.Error("KeepColumns must not modify the original ballots")
	}
}

func TestTwoRounds_MajorityInFirstRound(t *testing.T) {
	b := mustBallots(t, []string{"A", "B"}, [][]int{
		{1, 2},
		{1, 2},
		{2, 1},
		{1, 2},
		{1, 2},
	})

	result := TwoRounds(b)

	if diff := cmp.Diff([]int{0}, result.Finalists); diff != "" {
		t.Errorf("Finalists mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{4, 0}, result.Second.Totals); diff != "" {
		t.Errorf("Round two totals mismatch (-want +got):\n%s", diff)
	}
	if result.Second.Totals[0] != OneRound(b).Totals[0] {
		t.Error("Round two must repeat the winner's round one total")
	}
}

func TestTwoRounds_Runoff(t *testing.T) {
	b := mustBallots(t, []string{"A", "B", "C"}, [][]int{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{3, 1, 2},
		{2, 3, 1},
		{1, 1, 2}, // spoiled in both rounds
	})

	result := TwoRounds(b)

	if diff := cmp.Diff([]int{2, 2, 1}, result.First.Totals); diff != "" {
		t.Errorf("Round one totals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, result.Finalists); diff != "" {
		t.Errorf("Finalists mismatch (-want +got):\n%s", diff)
	}
	// C's voter ranked A above B
	if diff := cmp.Diff([]int{3, 2, 0}, result.Second.Totals); diff != "" {
		t.Errorf("Round two totals mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, true, false}, result.Second.Eligible); diff != "" {
		t.Errorf("Round two eligibility mismatch (-want +got):\n%s", diff)
	}
}

func TestTwoRounds_SingleRoundScenarioMatchesOneRound(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	names := []string{"A", "B", "C"}

	for trial := 0; trial < 200; trial++ {
		b := randomBallots(t, rng, names, 1+rng.Intn(12))
		first := OneRound(b)
		result := TwoRounds(b)

		if diff := cmp.Diff(first.Totals, result.First.Totals); diff != "" {
			t.Fatalf("trial %d: round one differs from OneRound:\n%s", trial, diff)
		}
		if len(result.Finalists) != 1 {
			continue
		}
		w := result.Finalists[0]
		for j, v := range result.Second.Totals {
			want := 0
			if j == w {
				want = first.Totals[w]
			}
			if v != want {
				t.Fatalf("trial %d: round two totals %v, want round one restricted to %d",
					trial, result.Second.Totals, w)
			}
		}
	}
}
