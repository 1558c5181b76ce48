// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open picks the driver by database type: modernc.org/sqlite for "sqlite"
(a file path or ":memory:") and lib/pq for "postgres":

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

SQLite connections are limited to one open connection with foreign keys
enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election: parameters, seeds and current snapshot IDs
  - candidate: registry entries ordered by seq
  - ballot: one STV ranking per voter, ordered by seq
  - result_snapshot: FPTP and STV results as JSON payloads

# Relationships

	election 1──* candidate
	election 1──* ballot
	election 1──* result_snapshot

All foreign keys use ON DELETE CASCADE.
*/
package db
