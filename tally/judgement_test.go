// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-tally/models"
)

func TestGradePoints(t *testing.T) {
	want := map[int]int{1: 5, 2: 4, 3: 4, 4: 3, 5: 3, 6: 2, 7: 2, 8: 1, 9: 1, 10: 0}

	for grade, points := range want {
		got, ok := gradePoints(grade)
		if !ok {
			t.Errorf("grade %d should be valid", grade)
		}
		if got != points {
			t.Errorf("grade %d: expected %d points, got %d", grade, points, got)
		}
	}

	for _, grade := range []int{0, 11, -3} {
		if _, ok := gradePoints(grade); ok {
			t.Errorf("grade %d should be rejected", grade)
		}
	}
}

func TestMajorityJudgementScores(t *testing.T) {
	b, err := models.BallotsFromInts([]string{"A", "B", "C"}, [][]int{
		{1, 10, -1},
		{2, 9, 5},
		{3, 8, 4},
	})
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}

	got := MajorityJudgementScores(b)
	want := []models.CandidateScore{
		{Candidate: 0, Score: 13},
		{Candidate: 1, Score: 2},
		{Candidate: 2, Score: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Scores mismatch (-want +got):\n%s", diff)
	}
}

func TestMajorityJudgement_AbstentionIsNotAGrader(t *testing.T) {
	b, err := models.BallotsFromInts([]string{"A", "B"}, [][]int{
		{1, -1},
		{10, -1},
		{-1, 1},
	})
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}

	scores := MajorityJudgementScores(b)
	if scores[0].Score != 5 {
		t.Errorf("A: grade 1 + grade 10 should give 5 points, got %d", scores[0].Score)
	}
	if scores[1].Score != 5 {
		t.Errorf("B: one grade 1 should give 5 points, got %d", scores[1].Score)
	}

	graders := CountGraders(b)
	if diff := cmp.Diff([]int{2, 1}, graders); diff != "" {
		t.Errorf("Graders mismatch (-want +got):\n%s", diff)
	}
}

func TestMajorityJudgement_OutOfRangeGradesIgnored(t *testing.T) {
	b, err := models.BallotsFromInts([]string{"A"}, [][]int{{0}, {11}, {4}})
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}

	if got := MajorityJudgementScores(b)[0].Score; got != 3 {
		t.Errorf("Expected 3 points, got %d", got)
	}
	if got := CountGraders(b)[0]; got != 1 {
		t.Errorf("Expected 1 grader, got %d", got)
	}
}

func TestMedianGrades(t *testing.T) {
	b, err := models.BallotsFromInts([]string{"A", "B", "C", "D"}, [][]int{
		{1, 10, -1, -1},
		{2, 9, 5, -1},
		{3, 8, 4, -1},
	})
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}

	got := MedianGrades(b)
	want := []float64{2, 9, 4.5, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Medians mismatch (-want +got):\n%s", diff)
	}
}

func TestSortScores_Stable(t *testing.T) {
	scores := []models.CandidateScore{
		{Candidate: 0, Score: 1},
		{Candidate: 1, Score: 1},
		{Candidate: 2, Score: 2},
	}

	SortScores(scores)

	want := []models.CandidateScore{
		{Candidate: 2, Score: 2},
		{Candidate: 0, Score: 1},
		{Candidate: 1, Score: 1},
	}
	if diff := cmp.Diff(want, scores); diff != "" {
		t.Errorf("SortScores mismatch (-want +got):\n%s", diff)
	}
}
