// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-tally/models"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

var (
	ErrUnsupportedType  = errors.New("unsupported database type")
	ErrElectionNotFound = errors.New("election not found")
)

// Store reads and writes ballots in a SQL database
type Store struct {
	db     *sql.DB
	dbType string
}

// Open connects to a PostgreSQL or SQLite database and verifies the connection
func Open(ctx context.Context, dbType, url string) (*Store, error) {
	if dbType != TypePostgres && dbType != TypeSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, dbType)
	}

	conn, err := sql.Open(dbType, url)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if dbType == TypeSQLite {
		// A single connection keeps in-memory databases alive across calls
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if dbType == TypeSQLite {
		if _, err := conn.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &Store{db: conn, dbType: dbType}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $N for PostgreSQL
func (s *Store) rebind(query string) string {
	if s.dbType != TypePostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ImportBallots stores a ballot matrix as a new election and returns its ID
func (s *Store) ImportBallots(ctx context.Context, name string, m *models.BallotMatrix) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	electionID := uuid.NewString()
	_, err = tx.ExecContext(ctx, s.rebind(`
		INSERT INTO election (id, name) VALUES (?, ?)
	`), electionID, name)
	if err != nil {
		return "", fmt.Errorf("failed to insert election: %w", err)
	}

	candidateIDs := make([]string, m.NumCandidates())
	for j, cand := range m.Candidates {
		candidateIDs[j] = uuid.NewString()
		_, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO candidate (id, election_id, position, name) VALUES (?, ?, ?, ?)
		`), candidateIDs[j], electionID, j, cand)
		if err != nil {
			return "", fmt.Errorf("failed to insert candidate %q: %w", cand, err)
		}
	}

	markStmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO mark (ballot_id, candidate_id, value) VALUES (?, ?, ?)
	`))
	if err != nil {
		return "", fmt.Errorf("failed to prepare mark insert: %w", err)
	}
	defer markStmt.Close()

	for i, row := range m.Rows {
		ballotID := uuid.NewString()
		_, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO ballot (id, election_id, position) VALUES (?, ?, ?)
		`), ballotID, electionID, i)
		if err != nil {
			return "", fmt.Errorf("failed to insert ballot %d: %w", i, err)
		}

		for j, mark := range row {
			if !mark.Cast {
				continue
			}
			if _, err := markStmt.ExecContext(ctx, ballotID, candidateIDs[j], mark.Value); err != nil {
				return "", fmt.Errorf("failed to insert mark for ballot %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}
	return electionID, nil
}

// LoadBallots rebuilds the ballot matrix of an election
func (s *Store) LoadBallots(ctx context.Context, electionID string) (*models.BallotMatrix, error) {
	var name string
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT name FROM election WHERE id = ?
	`), electionID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrElectionNotFound, electionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}

	candidates, columns, err := s.candidates(ctx, electionID)
	if err != nil {
		return nil, err
	}

	ballotRows, err := s.ballotPositions(ctx, electionID)
	if err != nil {
		return nil, err
	}

	rows := make([][]models.Mark, len(ballotRows))
	for i := range rows {
		rows[i] = make([]models.Mark, len(candidates))
	}

	marks, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT m.ballot_id, m.candidate_id, m.value
		FROM mark m
		JOIN ballot b ON m.ballot_id = b.id
		WHERE b.election_id = ?
	`), electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks: %w", err)
	}
	defer marks.Close()

	for marks.Next() {
		var ballotID, candidateID string
		var value int
		if err := marks.Scan(&ballotID, &candidateID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan mark: %w", err)
		}
		i, ok := ballotRows[ballotID]
		j, ok2 := columns[candidateID]
		if !ok || !ok2 {
			return nil, fmt.Errorf("mark references unknown ballot %s or candidate %s", ballotID, candidateID)
		}
		rows[i][j] = models.Vote(value)
	}
	if err := marks.Err(); err != nil {
		return nil, fmt.Errorf("failed to read marks: %w", err)
	}

	return models.NewBallotMatrix(candidates, rows)
}

// candidates returns names in column order and a candidate ID → column map
func (s *Store) candidates(ctx context.Context, electionID string) ([]string, map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id, name FROM candidate WHERE election_id = ? ORDER BY position
	`), electionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	var names []string
	columns := make(map[string]int)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		columns[id] = len(names)
		names = append(names, name)
	}

	return names, columns, rows.Err()
}

// ballotPositions maps ballot IDs to matrix rows
func (s *Store) ballotPositions(ctx context.Context, electionID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT id FROM ballot WHERE election_id = ? ORDER BY position
	`), electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	positions := make(map[string]int)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		positions[id] = len(positions)
	}

	return positions, rows.Err()
}
