// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally implements the election tabulation engine.

# Pairwise Methods

BuildDuelMatrix derives the pairwise tally from ranked ballots. The other
pairwise methods only read the duel matrix:

	duel := tally.BuildDuelMatrix(ballots)
	if w, ok := tally.CondorcetWinner(duel); ok {
		// w beats every other candidate
	}
	w := tally.MinimaxWinner(duel)      // smallest worst defeat
	w = tally.SchulzeWinner(duel)       // additive path widening
	scores := tally.PairwiseWinCounts(duel)

Every winner scan keeps the lowest index on ties, so repeated calls on the
same matrix always agree.

PairwiseWinCounts is what the tool reports as "Ranked Pairs". It counts
pairwise victories (Copeland style) and does not build Tideman's lock-in
graph. SchulzeWinner widens paths with p[j][i] + p[i][k] rather than the
minimum of the two legs. Both behaviours are kept as they are because
changing them changes winners.

# Majority Judgement

MajorityJudgementScores reads grades (1 best, 10 worst) and converts them to
points:

	1 → 5, 2-3 → 4, 4-5 → 3, 6-7 → 2, 8-9 → 1, 10 → 0

Abstentions add nothing and do not count as graders.

# First Past The Post

OneRound keeps each ballot's unique best-ranked candidate; a ballot with a
tied top preference casts no vote. RunoffCandidates returns the absolute
majority winner alone, or the top two. TwoRounds re-tallies the original
ballots restricted to the runoff candidates.

TwoRoundsByName computes the same election on a name-sorted VoteTally and
must always agree with TwoRounds.
*/
package tally
