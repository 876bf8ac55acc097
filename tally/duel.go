// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import "github.com/danielhkuo/quickly-tally/models"

// BuildDuelMatrix counts, for every ordered pair (i, j), the ballots that rank
// i strictly better than j. Ties and abstentions count for neither side.
func BuildDuelMatrix(b *models.BallotMatrix) *models.DuelMatrix {
	n := b.NumCandidates()
	wins := make([][]int, n)
	for i := range wins {
		wins[i] = make([]int, n)
	}

	for _, row := range b.Rows {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i != j && row[i].Better(row[j]) {
					wins[i][j]++
				}
			}
		}
	}

	// Shape is guaranteed by construction
	d, err := models.NewDuelMatrix(b.Candidates, wins)
	if err != nil {
		panic(err)
	}
	return d
}
