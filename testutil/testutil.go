// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/models"
)

// TestDBURLEnv names the environment variable holding a PostgreSQL test database
const TestDBURLEnv = "TEST_DATABASE_URL"

// WriteCSV writes content to a temporary CSV file and returns its path
func WriteCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ballots.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test CSV: %v", err)
	}
	return path
}

// Ballots builds a ballot matrix from integer rows, -1 meaning abstention
func Ballots(t *testing.T, names []string, rows [][]int) *models.BallotMatrix {
	t.Helper()

	b, err := models.BallotsFromInts(names, rows)
	if err != nil {
		t.Fatalf("Failed to build ballots: %v", err)
	}
	return b
}

// SetupTestStore opens a fresh in-memory SQLite store with the full schema
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()

	ctx := context.Background()
	store, err := db.Open(ctx, db.TypeSQLite, "file::memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return store
}

// SetupPostgresStore opens the PostgreSQL test database named by
// TEST_DATABASE_URL, skipping the test when it is not set
func SetupPostgresStore(t *testing.T) *db.Store {
	t.Helper()

	url := os.Getenv(TestDBURLEnv)
	if url == "" {
		t.Skipf("%s not set", TestDBURLEnv)
	}

	ctx := context.Background()
	store, err := db.Open(ctx, db.TypePostgres, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.CreateSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return store
}
