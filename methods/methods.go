// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package methods

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/tally"
)

var (
	ErrDuelMode = errors.New("method is not compatible with duel input")
	ErrNoInput  = errors.New("no ballots or duel tally given")
)

// Input holds the ballots to tabulate. Exactly one of Ballots and Duel is set;
// a Duel alone means duel mode.
type Input struct {
	Source  string
	Ballots *models.BallotMatrix
	Duel    *models.DuelMatrix
}

func (in Input) duelMode() bool {
	return in.Ballots == nil
}

// Validate rejects methods that need individual ballots when only a duel
// tally is available
func Validate(method string, duelMode bool) error {
	if !duelMode {
		return nil
	}
	switch method {
	case models.MethodFPTPOneRound, models.MethodFPTPTwoRound, models.MethodJudgement:
		return fmt.Errorf("%w: %s", ErrDuelMode, method)
	}
	return nil
}

// Run tabulates the input with the selected method and assembles a report
func Run(method string, in Input) (*models.Report, error) {
	method, err := models.ParseMethod(method)
	if err != nil {
		return nil, err
	}
	if in.Ballots == nil && in.Duel == nil {
		return nil, ErrNoInput
	}
	if err := Validate(method, in.duelMode()); err != nil {
		return nil, err
	}

	r := &models.Report{
		RunID:      uuid.NewString(),
		Method:     method,
		Source:     in.Source,
		ComputedAt: time.Now().UTC(),
	}
	if in.Ballots != nil {
		r.Candidates = append([]string(nil), in.Ballots.Candidates...)
		r.BallotCount = in.Ballots.NumBallots()
	} else {
		r.Candidates = in.Duel.Candidates()
	}

	switch method {
	case models.MethodFPTPOneRound:
		r.FPTP = oneRound(in.Ballots)

	case models.MethodFPTPTwoRound:
		r.FPTP, err = twoRounds(in.Ballots)
		if err != nil {
			return nil, err
		}

	case models.MethodMinimax:
		r.Condorcet = condorcet(in.duel(), models.MethodMinimax)

	case models.MethodSchulze:
		r.Condorcet = condorcet(in.duel(), models.MethodSchulze)

	case models.MethodPairwise:
		r.Pairwise = pairwise(in.duel())

	case models.MethodJudgement:
		r.Judgement = judgement(in.Ballots)

	case models.MethodAll:
		if !in.duelMode() {
			r.FPTP, err = twoRounds(in.Ballots)
			if err != nil {
				return nil, err
			}
		}
		d := in.duel()
		r.Condorcet = condorcet(d, models.MethodMinimax, models.MethodSchulze)
		r.Pairwise = pairwise(d)
	}

	slog.Debug("tabulation done", "run_id", r.RunID, "method", method,
		"candidates", len(r.Candidates), "ballots", r.BallotCount)
	return r, nil
}

// duel returns the given duel tally or builds it from the ballots
func (in Input) duel() *models.DuelMatrix {
	if in.Duel != nil {
		return in.Duel
	}
	return tally.BuildDuelMatrix(in.Ballots)
}

func oneRound(b *models.BallotMatrix) *models.FPTPReport {
	round := tally.OneRound(b)
	finalists := tally.RunoffCandidates(round.Totals, round.Eligible)

	return &models.FPTPReport{
		Rounds:    []models.RoundReport{standings(b.Candidates, round.Totals, round.Eligible)},
		Finalists: names(b.Candidates, finalists),
	}
}

// twoRounds reports round one from the matrix tally and round two from the
// name-keyed tally
func twoRounds(b *models.BallotMatrix) (*models.FPTPReport, error) {
	res := tally.TwoRounds(b)

	byName, err := tally.TwoRoundsByName(b)
	if err != nil {
		return nil, err
	}

	second := make([]int, b.NumCandidates())
	for _, f := range res.Finalists {
		votes, ok := byName.Get(b.Candidates[f])
		if !ok {
			return nil, fmt.Errorf("runoff candidate %q missing from round two", b.Candidates[f])
		}
		second[f] = votes
	}

	return &models.FPTPReport{
		Rounds: []models.RoundReport{
			standings(b.Candidates, res.First.Totals, res.First.Eligible),
			standings(b.Candidates, second, res.Second.Eligible),
		},
		Finalists: names(b.Candidates, res.Finalists),
	}, nil
}

// standings lists eligible candidates in column order with their vote share
func standings(candidates []string, totals []int, eligible []bool) models.RoundReport {
	total := 0
	for i, v := range totals {
		if eligible[i] {
			total += v
		}
	}

	out := models.RoundReport{Standings: []models.Standing{}, Total: total}
	for i, v := range totals {
		if !eligible[i] {
			continue
		}
		s := models.Standing{Candidate: candidates[i], Votes: v}
		if total > 0 {
			s.Share = float64(v) / float64(total)
		}
		out.Standings = append(out.Standings, s)
	}
	return out
}

// condorcet reports the Condorcet winner, or the winner of each fallback
// method when there is none
func condorcet(d *models.DuelMatrix, fallbacks ...string) *models.CondorcetReport {
	out := &models.CondorcetReport{Duel: d.Rows()}

	if w, ok := tally.CondorcetWinner(d); ok {
		name := d.Candidate(w)
		out.Winner = &name
		return out
	}

	slog.Info("no Condorcet winner found", "fallbacks", fallbacks)
	for _, m := range fallbacks {
		var w int
		switch m {
		case models.MethodMinimax:
			w = tally.MinimaxWinner(d)
		case models.MethodSchulze:
			w = tally.SchulzeWinner(d)
		default:
			continue
		}
		out.Fallbacks = append(out.Fallbacks, models.WinnerReport{Method: m, Candidate: d.Candidate(w)})
	}
	return out
}

func pairwise(d *models.DuelMatrix) []models.ScoreEntry {
	scores := tally.PairwiseWinCounts(d)
	out := make([]models.ScoreEntry, len(scores))
	for i, s := range scores {
		out[i] = models.ScoreEntry{Candidate: d.Candidate(s.Candidate), Score: s.Score}
	}
	return out
}

// judgement ranks Majority Judgement points with graders and median grades
func judgement(b *models.BallotMatrix) []models.ScoreEntry {
	scores := tally.MajorityJudgementScores(b)
	graders := tally.CountGraders(b)
	medians := tally.MedianGrades(b)
	tally.SortScores(scores)

	out := make([]models.ScoreEntry, len(scores))
	for i, s := range scores {
		g := graders[s.Candidate]
		m := medians[s.Candidate]
		out[i] = models.ScoreEntry{
			Candidate: b.Candidates[s.Candidate],
			Score:     s.Score,
			Graders:   &g,
			Median:    &m,
		}
	}
	return out
}

func names(candidates []string, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = candidates[j]
	}
	return out
}
