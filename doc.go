// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the VoteViz API server.

VoteViz simulates and compares two electoral systems over the same candidate
registry: first-past-the-post over generated districts, and the single
transferable vote over generated ranked ballots that can be edited one by
one.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	ADMIN_KEY_SALT=... SHARE_SLUG_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt ... -slug-salt ...

Variables are also read from a .env file (-env-file) when it exists. Values
already set in the environment win over the file.

# Configuration

Required settings:

  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SHARE_SLUG_SALT (-slug-salt): Secret for share slug generation

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string or SQLite file (default: voteviz.db)
  - VOTEVIZ_SEED (-seed): Fixed seed for every draw, 0 for fresh seeds
  - DEFAULT_VOTERS, DEFAULT_DISTRICTS, DEFAULT_ELECTORS: Defaults for new elections

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (elections, FPTP, STV)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: ID, admin key and share slug generation
  - db: Connection and schema creation
  - cliparse: Configuration parsing

The election engine is independent of HTTP:

  - candidates: Candidate registry and validation
  - fptp: District generation and summaries
  - stv: Ballots and the count
  - simulation: Deciding what an edit requires
  - ordered, random: Supporting containers and seeding

See package documentation for each component.
*/
package main
