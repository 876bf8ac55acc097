package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielhkuo/quickly-tally/cliparse"
	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/methods"
	"github.com/danielhkuo/quickly-tally/models"
	"github.com/danielhkuo/quickly-tally/receipt"
	"github.com/danielhkuo/quickly-tally/testutil"
)

const runoffCSV = `Voter,Q00_Vote->1 - A,Q00_Vote->2 - B,Q00_Vote->3 - C
v1,1,2,3
v2,1,3,2
v3,2,1,3
v4,3,1,2
v5,2,3,1
v6,1,1,2
`

func cleanEnv(t *testing.T) []string {
	t.Helper()
	for _, k := range []string{"CANDIDATES", "METHOD", "DATABASE_URL", "DATABASE_TYPE", "ELECTION_ID", "LOG_LEVEL", "OUTPUT_FORMAT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return []string{"-env", filepath.Join(t.TempDir(), "none.env"), "-log-level", "error"}
}

func runCLI(t *testing.T, stdin string, interactive bool, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &out, interactive)
	return out.String(), err
}

func TestRun_TwoRoundText(t *testing.T) {
	args := append(cleanEnv(t), "-i", testutil.WriteCSV(t, runoffCSV), "-n", "3", "-m", "uni2")

	out, err := runCLI(t, "", false, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, want := range []string{"Round 1", "Round 2", "Finalists:", "A, B"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestRun_JSONOutput(t *testing.T) {
	args := append(cleanEnv(t), "-i", testutil.WriteCSV(t, runoffCSV), "-n", "3", "-m", "all", "-format", "json")

	out, err := runCLI(t, "", false, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var r models.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if r.BallotCount != 6 || len(r.Candidates) != 3 {
		t.Errorf("Unexpected report header: %d ballots, %d candidates", r.BallotCount, len(r.Candidates))
	}
	if r.FPTP == nil || r.Condorcet == nil || r.Pairwise == nil {
		t.Error("Expected FPTP, Condorcet and pairwise sections")
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	args := append(cleanEnv(t), "-i", testutil.WriteCSV(t, runoffCSV), "-n", "3", "-m", "cp", "-o", path)

	if _, err := runCLI(t, "", false, args...); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read report file: %v", err)
	}
	var r models.Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("Failed to decode report file: %v", err)
	}
	if len(r.Pairwise) != 3 {
		t.Errorf("Expected 3 pairwise entries, got %d", len(r.Pairwise))
	}
}

func TestRun_DuelFile(t *testing.T) {
	duel := testutil.WriteCSV(t, "Candidate,A,B,C\nA,0,2,1\nB,1,0,2\nC,2,1,0\n")

	args := append(cleanEnv(t), "-d", duel, "-n", "3", "-m", "cs")
	out, err := runCLI(t, "", false, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "No Condorcet winner found") {
		t.Errorf("Expected the no-winner notice in:\n%s", out)
	}

	args = append(cleanEnv(t), "-d", duel, "-n", "3", "-m", "uni1")
	if _, err := runCLI(t, "", false, args...); !errors.Is(err, methods.ErrDuelMode) {
		t.Errorf("Expected ErrDuelMode, got %v", err)
	}
}

func TestRun_CandidatePrompt(t *testing.T) {
	csv := testutil.WriteCSV(t, runoffCSV)

	args := append(cleanEnv(t), "-i", csv, "-m", "cm")
	if _, err := runCLI(t, "", false, args...); !errors.Is(err, cliparse.ErrCandidatesRequired) {
		t.Errorf("Expected ErrCandidatesRequired, got %v", err)
	}

	out, err := runCLI(t, "3\n", true, args...)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(out, "Number of candidates: ") {
		t.Errorf("Expected a prompt, got:\n%s", out)
	}

	if _, err := runCLI(t, "three\n", true, args...); err == nil {
		t.Error("Expected an error for an invalid candidate count")
	}
}

func TestRun_ImportAndStoredElection(t *testing.T) {
	dbURL := "file:" + filepath.Join(t.TempDir(), "ballots.db")

	args := append(cleanEnv(t), "-i", testutil.WriteCSV(t, runoffCSV), "-n", "3", "-m", "uni1",
		"-db", dbURL, "-import", "board")
	if _, err := runCLI(t, "", false, args...); err != nil {
		t.Fatalf("import run failed: %v", err)
	}

	// Import a second copy directly to learn its ID
	ctx := context.Background()
	store, err := db.Open(ctx, db.TypeSQLite, dbURL)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	b := testutil.Ballots(t, []string{"A", "B"}, [][]int{{1, 2}, {2, 1}, {1, 2}})
	id, err := store.ImportBallots(ctx, "direct", b)
	store.Close()
	if err != nil {
		t.Fatalf("ImportBallots failed: %v", err)
	}

	args = append(cleanEnv(t), "-election", id, "-db", dbURL, "-m", "uni1", "-format", "json")
	out, err := runCLI(t, "", false, args...)
	if err != nil {
		t.Fatalf("stored election run failed: %v", err)
	}

	var r models.Report
	if err := json.Unmarshal([]byte(out), &r); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if r.BallotCount != 3 || r.FPTP.Finalists[0] != "A" {
		t.Errorf("Unexpected stored election report: %+v", r.FPTP)
	}
}

func TestRun_Verify(t *testing.T) {
	hash := receipt.Hash("k3y", "doe", "jane")
	file := testutil.WriteCSV(t, "Receipt,A,B\nffff,1,2\n"+hash+",2,1\n")

	out, err := runCLI(t, "", false, "verify", "-i", file, "-key", "k3y", "-last", "DOE", "-first", "Jane")
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	for _, want := range []string{"Vote found on line 3", "A: 2", "B: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}

	// Missing fields are prompted for on a terminal
	out, err = runCLI(t, "Doe\njane\n", true, "verify", "-i", file, "-key", "k3y")
	if err != nil {
		t.Fatalf("interactive verify failed: %v", err)
	}
	if !strings.Contains(out, "Vote found") {
		t.Errorf("Expected the vote to be found:\n%s", out)
	}

	if _, err := runCLI(t, "", false, "verify", "-i", file, "-key", "k3y"); err == nil {
		t.Error("Expected an error for missing names without a terminal")
	}

	_, err = runCLI(t, "", false, "verify", "-i", file, "-key", "wrong", "-last", "doe", "-first", "jane")
	if !errors.Is(err, receipt.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRun_Help(t *testing.T) {
	if _, err := runCLI(t, "", false, "-h"); err != nil {
		t.Errorf("Expected -h to succeed, got %v", err)
	}
	if _, err := runCLI(t, "", false, "verify", "-h"); err != nil {
		t.Errorf("Expected verify -h to succeed, got %v", err)
	}
}
