// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-tally/models"
)

var (
	ErrNoDataColumns = errors.New("could not locate data columns")
	ErrColumnCount   = errors.New("data column count does not match candidate count")
	ErrEmptyFile     = errors.New("ballot file has no header")
	ErrNoBallots     = errors.New("ballot file has no data rows")
)

// ParseError reports a cell that is neither empty nor an integer
type ParseError struct {
	Line   int
	Column string
	Value  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: invalid value %q", e.Line, e.Column, e.Value)
}

// Options control how ballot files are read
type Options struct {
	// Candidates is the expected number of data columns
	Candidates int
	// MaxValue is the largest value accepted when looking for the first data
	// column. Defaults to Candidates; grade files need 10.
	MaxValue int
}

// Survey exports prefix every candidate column, e.g. "Q00_Vote->3 - Alice"
var decoratedHeader = regexp.MustCompile(`^Q\d+_Vote->\d+ - (.*)$`)

// CandidateName strips survey decoration from a header cell
func CandidateName(header string) string {
	header = strings.TrimRight(header, "\r\n")
	if m := decoratedHeader.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return header
}

// ReadFile loads a ballot matrix from a CSV file
func ReadFile(path string, opts Options) (*models.BallotMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ballot file: %w", err)
	}
	defer f.Close()

	b, err := Read(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Read parses a CSV ballot export. The first line holds column names and the
// last Candidates columns hold the ballots; any columns before them
// (timestamps, voter ids...) are skipped. The first non-empty ballot cell
// must be -1 or an integer in [0, MaxValue].
func Read(r io.Reader, opts Options) (*models.BallotMatrix, error) {
	names, rows, err := readTable(r, opts)
	if err != nil {
		return nil, err
	}

	marks := make([][]models.Mark, len(rows))
	for i, row := range rows {
		marks[i] = make([]models.Mark, len(row))
		for j, v := range row {
			switch {
			case v == nil:
				marks[i][j] = models.Abstain
			case *v < -1:
				return nil, &ParseError{Line: i + 2, Column: names[j], Value: strconv.Itoa(*v)}
			default:
				marks[i][j] = models.MarkFromInt(*v)
			}
		}
	}

	return models.NewBallotMatrix(names, marks)
}

// ReadDuelFile loads a pre-computed n×n duel tally from a CSV file
func ReadDuelFile(path string, candidates int) (*models.DuelMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duel file: %w", err)
	}
	defer f.Close()

	d, err := ReadDuel(f, candidates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ReadDuel parses a duel tally. Cells are win counts, so any non-negative
// value is accepted.
func ReadDuel(r io.Reader, candidates int) (*models.DuelMatrix, error) {
	names, rows, err := readTable(r, Options{Candidates: candidates, MaxValue: math.MaxInt})
	if err != nil {
		return nil, err
	}

	wins := make([][]int, len(rows))
	for i, row := range rows {
		wins[i] = make([]int, len(row))
		for j, v := range row {
			if v != nil && *v > 0 {
				wins[i][j] = *v
			}
		}
	}

	return models.NewDuelMatrix(names, wins)
}

// readTable returns candidate names and the data block; nil cells are empty
func readTable(r io.Reader, opts Options) ([]string, [][]*int, error) {
	if opts.Candidates <= 0 {
		return nil, nil, fmt.Errorf("candidate count must be positive, got %d", opts.Candidates)
	}
	if opts.MaxValue == 0 {
		opts.MaxValue = opts.Candidates
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, ErrEmptyFile
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrNoBallots
	}

	start := len(header) - opts.Candidates
	if start < 0 {
		return nil, nil, fmt.Errorf("%w: header has %d columns, want at least %d",
			ErrColumnCount, len(header), opts.Candidates)
	}
	if !looksLikeBallots(records, start, opts) {
		return nil, nil, ErrNoDataColumns
	}

	names := make([]string, opts.Candidates)
	for j := range names {
		names[j] = CandidateName(header[start+j])
	}

	rows := make([][]*int, 0, len(records))
	for i, rec := range records {
		line := i + 2
		if len(rec) < start+opts.Candidates {
			return nil, nil, fmt.Errorf("%w: line %d has %d fields, want %d",
				ErrColumnCount, line, len(rec), start+opts.Candidates)
		}

		row := make([]*int, opts.Candidates)
		for j := range row {
			cell := strings.TrimSpace(rec[start+j])
			if cell == "" {
				continue
			}
			v, err := strconv.Atoi(cell)
			if err != nil {
				return nil, nil, &ParseError{Line: line, Column: names[j], Value: cell}
			}
			row[j] = &v
		}
		rows = append(rows, row)
	}

	return names, rows, nil
}

// looksLikeBallots checks the first non-empty cell of the ballot block. A
// block with no cells filled in is all abstentions.
func looksLikeBallots(records [][]string, start int, opts Options) bool {
	for _, rec := range records {
		for j := start; j < start+opts.Candidates && j < len(rec); j++ {
			field := strings.TrimSpace(rec[j])
			if field == "" {
				continue
			}
			v, err := strconv.Atoi(field)
			if err != nil {
				return false
			}
			return v == -1 || (v >= 0 && v <= opts.MaxValue)
		}
	}
	return true
}
