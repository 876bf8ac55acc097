// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores ballots in PostgreSQL or SQLite so elections can be
tabulated without the original CSV export.

# Opening a Store

	store, err := db.Open(ctx, db.TypeSQLite, "file:ballots.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal(err)
	}

PostgreSQL uses github.com/lib/pq, SQLite uses modernc.org/sqlite. Queries are
written with ? placeholders and rebound to $N for PostgreSQL.

# Tables

  - election: one row per imported ballot file
  - candidate: candidate names in column order
  - ballot: one row per ballot in file order
  - mark: rank or grade per ballot and candidate

A missing mark row is an abstention. All foreign keys use ON DELETE CASCADE.

# Import and Load

	id, err := store.ImportBallots(ctx, "board-2024", ballots)
	ballots, err = store.LoadBallots(ctx, id)

Only ballots are stored; tabulation results are never written back.
*/
package db
