// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - DatabaseURL: SQLite file or PostgreSQL connection string (default: voteviz.db for SQLite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - ShareSlugSalt: Secret for share slug generation (required)
  - Seed: Fixed random seed, 0 draws a fresh seed per simulation
  - DefaultVoters, DefaultDistricts, DefaultElectors: Election defaults (100, 17, 100)

# CLI Flags

	-env-file    Env file (default .env, ignored when missing)
	-p           Server port
	-d           Database URL
	-t           Database type
	-admin-salt  Admin key salt
	-slug-salt   Share slug salt
	-seed        Fixed random seed
	-voters      Default STV voters
	-districts   Default FPTP districts
	-electors    Default electors per district

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ADMIN_KEY_SALT    → -admin-salt
	SHARE_SLUG_SALT   → -slug-salt
	VOTEVIZ_SEED      → -seed
	DEFAULT_VOTERS    → -voters
	DEFAULT_DISTRICTS → -districts
	DEFAULT_ELECTORS  → -electors

CLI flags take precedence over environment variables. The env file is
loaded with godotenv and never overrides a variable that is already set.

# Validation

ParseFlags returns an error wrapping ErrInvalidConfig if:

  - ADMIN_KEY_SALT or SHARE_SLUG_SALT is missing
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - a numeric value does not parse or a default is not positive
*/
package cliparse
