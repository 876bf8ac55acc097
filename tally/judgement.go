// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"sort"

	"github.com/danielhkuo/quickly-tally/models"
)

// Grade bounds for Majority Judgement ballots (1 is the best grade)
const (
	BestGrade  = 1
	WorstGrade = 10
)

// gradePoints maps a grade to its points, higher being better.
// ok is false for grades outside [BestGrade, WorstGrade].
func gradePoints(grade int) (points int, ok bool) {
	switch {
	case grade == 1:
		return 5, true // A
	case grade >= 2 && grade <= 3:
		return 4, true // B
	case grade >= 4 && grade <= 5:
		return 3, true // C
	case grade >= 6 && grade <= 7:
		return 2, true // D
	case grade >= 8 && grade <= 9:
		return 1, true // E
	case grade == 10:
		return 0, true // F
	}
	return 0, false
}

// MajorityJudgementScores sums grade points per candidate, in candidate order.
// Abstentions and out-of-range grades are skipped. Ranking the result is left
// to the caller (see SortScores).
func MajorityJudgementScores(b *models.BallotMatrix) []models.CandidateScore {
	scores := make([]models.CandidateScore, b.NumCandidates())
	for i := range scores {
		scores[i].Candidate = i
	}

	for _, row := range b.Rows {
		for j, m := range row {
			if !m.Cast {
				continue
			}
			if pts, ok := gradePoints(m.Value); ok {
				scores[j].Score += pts
			}
		}
	}

	return scores
}

// CountGraders returns, per candidate, how many ballots gave a valid grade
func CountGraders(b *models.BallotMatrix) []int {
	counts := make([]int, b.NumCandidates())
	for _, row := range b.Rows {
		for j, m := range row {
			if _, ok := gradePoints(m.Value); m.Cast && ok {
				counts[j]++
			}
		}
	}
	return counts
}

// MedianGrades returns the median valid grade per candidate (0 when nobody
// graded the candidate)
func MedianGrades(b *models.BallotMatrix) []float64 {
	grades := make([][]float64, b.NumCandidates())
	for _, row := range b.Rows {
		for j, m := range row {
			if _, ok := gradePoints(m.Value); m.Cast && ok {
				grades[j] = append(grades[j], float64(m.Value))
			}
		}
	}

	medians := make([]float64, len(grades))
	for j, g := range grades {
		sort.Float64s(g)
		medians[j] = percentile(g, 0.5)
	}
	return medians
}

// SortScores orders scores highest first, keeping the existing order among
// equal scores
func SortScores(scores []models.CandidateScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
}

// percentile calculates the p-th percentile of sorted data
// p should be in range [0, 1]
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0.0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// Linear interpolation between closest ranks
	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
