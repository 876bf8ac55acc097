// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/testutil"
)

func TestImportAndLoadBallots(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	ballots := testutil.Ballots(t, []string{"Alice", "Bob", "Carol"}, [][]int{
		{1, 2, 3},
		{2, -1, 1},
		{-1, -1, -1},
		{3, 1, 2},
	})

	id, err := store.ImportBallots(ctx, "board", ballots)
	if err != nil {
		t.Fatalf("ImportBallots failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected an election ID")
	}

	loaded, err := store.LoadBallots(ctx, id)
	if err != nil {
		t.Fatalf("LoadBallots failed: %v", err)
	}

	if diff := cmp.Diff(ballots, loaded); diff != "" {
		t.Errorf("Loaded ballots mismatch (-want +got):\n%s", diff)
	}
}

func TestImportBallots_SeparateElections(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	first := testutil.Ballots(t, []string{"A", "B"}, [][]int{{1, 2}})
	second := testutil.Ballots(t, []string{"X", "Y", "Z"}, [][]int{{3, 2, 1}, {1, 2, 3}})

	firstID, err := store.ImportBallots(ctx, "first", first)
	if err != nil {
		t.Fatalf("ImportBallots failed: %v", err)
	}
	secondID, err := store.ImportBallots(ctx, "second", second)
	if err != nil {
		t.Fatalf("ImportBallots failed: %v", err)
	}

	loaded, err := store.LoadBallots(ctx, firstID)
	if err != nil {
		t.Fatalf("LoadBallots failed: %v", err)
	}
	if diff := cmp.Diff(first, loaded); diff != "" {
		t.Errorf("First election mismatch (-want +got):\n%s", diff)
	}

	loaded, err = store.LoadBallots(ctx, secondID)
	if err != nil {
		t.Fatalf("LoadBallots failed: %v", err)
	}
	if diff := cmp.Diff(second, loaded); diff != "" {
		t.Errorf("Second election mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadBallots_UnknownElection(t *testing.T) {
	store := testutil.SetupTestStore(t)

	_, err := store.LoadBallots(context.Background(), "missing")
	if !errors.Is(err, db.ErrElectionNotFound) {
		t.Errorf("Expected ErrElectionNotFound, got %v", err)
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	store := testutil.SetupTestStore(t)

	if err := store.CreateSchema(context.Background()); err != nil {
		t.Errorf("Second CreateSchema failed: %v", err)
	}
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := db.Open(context.Background(), "mysql", "whatever")
	if !errors.Is(err, db.ErrUnsupportedType) {
		t.Errorf("Expected ErrUnsupportedType, got %v", err)
	}
}

func TestImportAndLoadBallots_Postgres(t *testing.T) {
	store := testutil.SetupPostgresStore(t)
	ctx := context.Background()

	ballots := testutil.Ballots(t, []string{"Alice", "Bob"}, [][]int{{1, 2}, {-1, 1}})

	id, err := store.ImportBallots(ctx, "pg", ballots)
	if err != nil {
		t.Fatalf("ImportBallots failed: %v", err)
	}

	loaded, err := store.LoadBallots(ctx, id)
	if err != nil {
		t.Fatalf("LoadBallots failed: %v", err)
	}
	if diff := cmp.Diff(ballots, loaded); diff != "" {
		t.Errorf("Loaded ballots mismatch (-want +got):\n%s", diff)
	}
}
