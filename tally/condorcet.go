// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"math"

	"github.com/danielhkuo/quickly-tally/models"
)

// CondorcetWinner returns the first candidate (in index order) that beats
// every other candidate pairwise. ok is false when no such candidate exists,
// which is a normal outcome and calls for a fallback method.
func CondorcetWinner(d *models.DuelMatrix) (winner int, ok bool) {
	n := d.Size()
	for i := 0; i < n; i++ {
		beatsAll := true
		for j := 0; j < n; j++ {
			if i != j && !d.Beats(i, j) {
				beatsAll = false
				break
			}
		}
		if beatsAll {
			return i, true
		}
	}
	return -1, false
}

// MinimaxWinner returns the candidate whose worst pairwise margin of defeat
// is smallest. The lowest index wins ties.
func MinimaxWinner(d *models.DuelMatrix) int {
	n := d.Size()
	winner := -1
	best := math.MaxInt

	for i := 0; i < n; i++ {
		worst := math.MinInt
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if loss := d.Wins(j, i) - d.Wins(i, j); loss > worst {
				worst = loss
			}
		}
		if worst < best {
			best = worst
			winner = i
		}
	}

	return winner
}

// PairwiseWinCounts scores each candidate by the number of pairwise contests
// it wins and returns all candidates sorted by score, highest first, keeping
// index order among equal scores.
//
// This is the method reported under the "Ranked Pairs" label. It is a
// Copeland-style win count, not Tideman's lock-in graph.
func PairwiseWinCounts(d *models.DuelMatrix) []models.CandidateScore {
	n := d.Size()
	scores := make([]models.CandidateScore, n)
	for i := 0; i < n; i++ {
		scores[i].Candidate = i
		for j := 0; j < n; j++ {
			if i != j && d.Beats(i, j) {
				scores[i].Score++
			}
		}
	}

	SortScores(scores)
	return scores
}

// SchulzeWinner widens every path p[j][k] through each intermediate i with
// p[j][i] + p[i][k], then picks the candidate that dominates the most others
// in the widened matrix. The lowest index wins ties.
//
// The path strength is the sum of the two legs, not the minimum used by the
// textbook beatpath; winners differ between the two.
func SchulzeWinner(d *models.DuelMatrix) int {
	n := d.Size()
	p := d.Rows()

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			for k := 0; k < n; k++ {
				if k == i || k == j {
					continue
				}
				if via := p[j][i] + p[i][k]; via > p[j][k] {
					p[j][k] = via
				}
			}
		}
	}

	winner := -1
	best := math.MinInt
	for i := 0; i < n; i++ {
		score := 0
		for j := 0; j < n; j++ {
			if i != j && p[i][j] > p[j][i] {
				score++
			}
		}
		if score > best {
			best = score
			winner = i
		}
	}

	return winner
}
