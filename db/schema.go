// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var ErrUnknownDatabaseType = errors.New("unknown database type")

// Open connects to a sqlite or postgres database and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "sqlite":
		driver = "sqlite"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDatabaseType, dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	if driver == "sqlite" {
		// An in-memory database exists only on its own connection.
		conn.SetMaxOpenConns(1)
		if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The schema sticks to types and defaults both SQLite and PostgreSQL accept.
const schema = `
-- Elections
CREATE TABLE IF NOT EXISTS election (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    share_slug TEXT NOT NULL UNIQUE,
    seats INTEGER NOT NULL CHECK (seats >= 1),
    voters INTEGER NOT NULL CHECK (voters >= 1),
    districts INTEGER NOT NULL CHECK (districts >= 1),
    electors INTEGER NOT NULL CHECK (electors >= 1),
    fptp_mode TEXT NOT NULL DEFAULT 'random' CHECK (fptp_mode IN ('random', 'underrepresentation')),
    fptp_seed BIGINT NOT NULL,
    ballot_seed BIGINT NOT NULL,
    fptp_snapshot_id TEXT,
    stv_snapshot_id TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_election_share_slug ON election(share_slug);

-- Candidates, in registry order
CREATE TABLE IF NOT EXISTS candidate (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    name TEXT NOT NULL,
    color TEXT NOT NULL,
    PRIMARY KEY (election_id, id),
    UNIQUE (election_id, seq)
);

-- STV ballots; seq is the voter index, ranking a JSON array lowest to highest priority
CREATE TABLE IF NOT EXISTS ballot (
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL,
    ranking TEXT NOT NULL,
    PRIMARY KEY (election_id, seq)
);

-- Result Snapshots
CREATE TABLE IF NOT EXISTS result_snapshot (
    id TEXT PRIMARY KEY,
    election_id TEXT NOT NULL REFERENCES election(id) ON DELETE CASCADE,
    method TEXT NOT NULL CHECK (method IN ('fptp', 'stv')),
    computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_result_snapshot_election_id ON result_snapshot(election_id);
`
