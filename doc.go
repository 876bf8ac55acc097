// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the quickly-tally command.

quickly-tally tabulates ranked and graded ballots with First Past The Post
(one or two rounds), Condorcet methods (Minimax, Schulze and a pairwise win
count labelled Ranked Pairs) and Majority Judgement.

# Running a Count

	quickly-tally -i ballots.csv -n 4 -m uni2
	quickly-tally -d duels.csv -n 4 -m cs
	quickly-tally -i grades.csv -n 4 -m jm -format json -o report.json

Ballot files are CSV exports: one header line, optional leading metadata
columns, then one column per candidate holding a rank (1 is best) or a grade
(1 to 10). -1 or an empty cell means no opinion.

# Configuration

Flags fall back to environment variables and an optional .env file:

  - CANDIDATES (-n): number of candidates, prompted for on a terminal
  - METHOD (-m): uni1, uni2, cm, cp, cs, jm or all
  - OUTPUT_FORMAT (-format): text or json
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - DATABASE_URL (-db), DATABASE_TYPE (-db-type), ELECTION_ID (-election)

# Ballot Store

Ballots can be kept in SQLite or PostgreSQL and counted later:

	quickly-tally -i ballots.csv -n 4 -m all -db file:ballots.db -import board-2025
	quickly-tally -election <id> -db file:ballots.db -m cs

# Verifying a Vote

	quickly-tally verify -i published.csv -key K -last Doe -first Jane

Missing values are prompted for on a terminal.

# Architecture

  - cliparse: flags, environment and .env configuration
  - ballots: CSV ballot and duel loader
  - db: ballot store schema, import and load
  - tally: counting algorithms
  - methods: method selection, fallbacks and report assembly
  - report: console tables and JSON
  - receipt: vote receipt hashing and lookup
  - models: shared types

Logs go to stderr so reports on stdout can be piped.
*/
package main
