// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-i          Ballot CSV file
	-d          Pre-computed duel CSV file (duel mode)
	-election   Stored election ID (needs -db)
	-m          Method: uni1, uni2, cm, cp, cs, jm, all
	-n          Number of candidates
	-o          Write the JSON report to a file
	-format     Stdout format: text (default) or json
	-log-level  debug, info (default), warn, error
	-db         Database URL
	-db-type    sqlite (default) or postgres
	-import     Store the ballots of -i under an election name
	-env        Environment file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	CANDIDATES    → -n
	METHOD        → -m
	DATABASE_URL  → -db
	DATABASE_TYPE → -db-type
	ELECTION_ID   → -election
	LOG_LEVEL     → -log-level
	OUTPUT_FORMAT → -format

Variables are also read from the -env file when it exists. CLI flags take
precedence over the environment, and the environment over the file.

# Validation

ParseFlags returns an error if:

  - no method is given, or it is unknown
  - zero or several ballot sources are given
  - a stored election or an import has no database URL
  - the format, log level or database type is invalid

A missing candidate count is left to the caller, which may prompt for it
(see Config.NeedsCandidates).

# Verify Subcommand

ParseVerifyFlags parses "verify -i file -key K -last L -first F". Only -i is
required; Missing lists the fields to prompt for.
*/
package cliparse
