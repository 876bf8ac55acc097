// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the ballot, duel and report types shared by the
tabulation engine, the loaders and the renderers.

# Ballots

A BallotMatrix has one row per ballot and one column per candidate. Each cell
is a Mark: a rank (1 = most preferred) or a grade (1-10, 1 = best), or an
abstention. Ballot files write abstentions as -1:

	m, err := models.BallotsFromInts([]string{"A", "B"}, [][]int{{1, 2}, {-1, 1}})

Abstentions never take part in comparisons; Mark.Better is false whenever
either side abstains.

# Duels

A DuelMatrix is the square pairwise tally derived from ballots (or loaded
directly in duel mode). Its diagonal is always zero and it cannot be changed
after construction.

# Constants

Method selectors:

	MethodFPTPOneRound = "uni1"
	MethodFPTPTwoRound = "uni2"
	MethodMinimax      = "cm"
	MethodPairwise     = "cp"
	MethodSchulze      = "cs"
	MethodJudgement    = "jm"
	MethodAll          = "all"

# Report Types

Report is the JSON document produced for one run:

  - FPTPReport: round standings and finalists
  - CondorcetReport: duel tally, winner, fallback winners
  - ScoreEntry: pairwise win counts or Majority Judgement points
*/
package models
