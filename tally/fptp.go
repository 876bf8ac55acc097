// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-tally/models"

// ReduceFirstPreferences turns each ballot into a single first-preference
// vote: 1 for the unique best-ranked candidate and 0 elsewhere. A ballot whose
// best rank is shared by several candidates, or that ranks nobody, becomes
// all zeros. Abstentions are ignored when looking for the best rank.
func ReduceFirstPreferences(rows [][]models.Mark) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = make([]int, len(row))

		best := -1
		count := 0
		for j, m := range row {
			if !m.Cast {
				continue
			}
			switch {
			case best == -1 || m.Value < row[best].Value:
				best = j
				count = 1
			case m.Value == row[best].Value:
				count++
			}
		}

		if count == 1 {
			out[i][best] = 1
		}
	}
	return out
}

// columnTotals sums each column of reduced rows
func columnTotals(rows [][]int, width int) []int {
	totals := make([]int, width)
	for _, row := range rows {
		for j, v := range row {
			totals[j] += v
		}
	}
	return totals
}

// OneRound reduces every ballot to its first preference and totals the votes
// per candidate
func OneRound(b *models.BallotMatrix) models.Round {
	rows := ReduceFirstPreferences(b.Rows)
	eligible := make([]bool, b.NumCandidates())
	for i := range eligible {
		eligible[i] = true
	}
	return models.Round{
		Rows:     rows,
		Totals:   columnTotals(rows, b.NumCandidates()),
		Eligible: eligible,
	}
}

// RunoffCandidates picks who goes to the next round. A candidate holding more
// than half of the votes cast goes alone. Otherwise the two highest totals go,
// scanning in index order with strict comparisons so the first-encountered
// candidate keeps a tied seat. A nil eligible slice means every candidate is
// eligible.
func RunoffCandidates(totals []int, eligible []bool) []int {
	isEligible := func(i int) bool {
		return eligible == nil || (i < len(eligible) && eligible[i])
	}

	cast := 0
	for i, v := range totals {
		if isEligible(i) {
			cast += v
		}
	}

	if cast > 0 {
		for i, v := range totals {
			if isEligible(i) && 2*v > cast {
				return []int{i}
			}
		}
	}

	first, second := -1, -1
	for i, v := range totals {
		if !isEligible(i) {
			continue
		}
		switch {
		case first == -1 || v > totals[first]:
			second = first
			first = i
		case second == -1 || v > totals[second]:
			second = i
		}
	}

	switch {
	case first == -1:
		return nil
	case second == -1:
		return []int{first}
	}
	return []int{first, second}
}

// KeepColumns returns a copy of b where every column outside keep is turned
// into abstentions, removing those candidates from later rank comparisons
func KeepColumns(b *models.BallotMatrix, keep []int) *models.BallotMatrix {
	kept := make(map[int]bool, len(keep))
	for _, k := range keep {
		kept[k] = true
	}

	out := b.Clone()
	for _, row := range out.Rows {
		for j := range row {
			if !kept[j] {
				row[j] = models.Abstain
			}
		}
	}
	return out
}

// TwoRounds runs round one, selects the runoff candidates and re-tallies the
// original ballots restricted to them. When round one already produced an
// absolute majority, round two carries the round-one totals of that single
// candidate unchanged.
func TwoRounds(b *models.BallotMatrix) models.TwoRoundResult {
	first := OneRound(b)
	finalists := RunoffCandidates(first.Totals, first.Eligible)

	eligible := make([]bool, b.NumCandidates())
	for _, f := range finalists {
		eligible[f] = true
	}

	var second models.Round
	if len(finalists) == 1 {
		winner := finalists[0]
		rows := make([][]int, len(first.Rows))
		for i, row := range first.Rows {
			rows[i] = make([]int, len(row))
			rows[i][winner] = row[winner]
		}
		second = models.Round{
			Rows:     rows,
			Totals:   columnTotals(rows, b.NumCandidates()),
			Eligible: eligible,
		}
	} else {
		rows := ReduceFirstPreferences(KeepColumns(b, finalists).Rows)
		second = models.Round{
			Rows:     rows,
			Totals:   columnTotals(rows, b.NumCandidates()),
			Eligible: eligible,
		}
	}

	return models.TwoRoundResult{
		First:     first,
		Finalists: finalists,
		Second:    second,
	}
}
