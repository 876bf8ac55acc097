// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-tally/models"
)

var methodLabels = map[string]string{
	models.MethodFPTPOneRound: "First Past The Post, one round",
	models.MethodFPTPTwoRound: "First Past The Post, two rounds",
	models.MethodMinimax:      "Condorcet (Minimax)",
	models.MethodPairwise:     "Condorcet (Ranked Pairs)",
	models.MethodSchulze:      "Condorcet (Schulze)",
	models.MethodJudgement:    "Majority Judgement",
	models.MethodAll:          "All ranked methods",
}

// MethodLabel returns a readable name for a method selector
func MethodLabel(method string) string {
	if l, ok := methodLabels[method]; ok {
		return l
	}
	return method
}

// WriteJSON writes the report as indented JSON
func WriteJSON(w io.Writer, r *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON report to path, replacing any existing file
func WriteJSONFile(path string, r *models.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteText renders the report as aligned console tables
func WriteText(w io.Writer, r *models.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Method:\t%s\n", MethodLabel(r.Method))
	if r.Source != "" {
		fmt.Fprintf(tw, "Source:\t%s\n", r.Source)
	}
	fmt.Fprintf(tw, "Candidates:\t%d\n", len(r.Candidates))
	if r.BallotCount > 0 {
		fmt.Fprintf(tw, "Ballots:\t%s\n", humanize.Comma(int64(r.BallotCount)))
	}
	fmt.Fprintf(tw, "Run:\t%s (%s)\n", r.RunID, r.ComputedAt.Format(time.RFC3339))

	if r.FPTP != nil {
		writeFPTP(tw, r.FPTP)
	}
	if r.Condorcet != nil {
		writeCondorcet(tw, r.Condorcet, r.Candidates)
	}
	if r.Pairwise != nil {
		fmt.Fprintf(tw, "\n%s\n", MethodLabel(models.MethodPairwise))
		writeScores(tw, r.Pairwise, "Wins")
	}
	if r.Judgement != nil {
		fmt.Fprintf(tw, "\n%s\n", MethodLabel(models.MethodJudgement))
		writeScores(tw, r.Judgement, "Points")
	}

	return tw.Flush()
}

func writeFPTP(w io.Writer, f *models.FPTPReport) {
	for i, round := range f.Rounds {
		fmt.Fprintf(w, "\nRound %d (%s votes)\n", i+1, humanize.Comma(int64(round.Total)))
		fmt.Fprintln(w, "Candidate\tVotes\tShare")
		for _, s := range round.Standings {
			fmt.Fprintf(w, "%s\t%s\t%s%%\n",
				s.Candidate, humanize.Comma(int64(s.Votes)), humanize.FtoaWithDigits(s.Share*100, 2))
		}
	}

	switch len(f.Finalists) {
	case 0:
	case 1:
		fmt.Fprintf(w, "\nWinner:\t%s\n", f.Finalists[0])
	default:
		label := "Runoff"
		if len(f.Rounds) > 1 {
			label = "Finalists"
		}
		fmt.Fprintf(w, "\n%s:\t%s\n", label, strings.Join(f.Finalists, ", "))
	}
}

func writeCondorcet(w io.Writer, c *models.CondorcetReport, candidates []string) {
	fmt.Fprintln(w, "\nDuels (row beats column)")
	fmt.Fprintln(w, "\t"+strings.Join(candidates, "\t"))
	for i, row := range c.Duel {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = humanize.Comma(int64(v))
		}
		name := ""
		if i < len(candidates) {
			name = candidates[i]
		}
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(cells, "\t"))
	}

	if c.Winner != nil {
		fmt.Fprintf(w, "\nCondorcet winner:\t%s\n", *c.Winner)
		return
	}
	fmt.Fprintln(w, "\nNo Condorcet winner found")
	for _, fb := range c.Fallbacks {
		fmt.Fprintf(w, "%s winner:\t%s\n", MethodLabel(fb.Method), fb.Candidate)
	}
}

func writeScores(w io.Writer, scores []models.ScoreEntry, unit string) {
	detailed := len(scores) > 0 && scores[0].Graders != nil

	if detailed {
		fmt.Fprintf(w, "Rank\tCandidate\t%s\tGraders\tMedian\n", unit)
	} else {
		fmt.Fprintf(w, "Rank\tCandidate\t%s\n", unit)
	}
	for i, s := range scores {
		fmt.Fprintf(w, "%s\t%s\t%s", humanize.Ordinal(i+1), s.Candidate, humanize.Comma(int64(s.Score)))
		if detailed && s.Graders != nil && s.Median != nil {
			fmt.Fprintf(w, "\t%d\t%s", *s.Graders, humanize.FtoaWithDigits(*s.Median, 1))
		}
		fmt.Fprintln(w)
	}
}
