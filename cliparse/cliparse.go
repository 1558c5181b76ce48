// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	AdminKeySalt  string
	ShareSlugSalt string

	// Seed fixes every random draw when non-zero.
	Seed int64

	DefaultVoters    int
	DefaultDistricts int
	DefaultElectors  int
}

// ParseFlags reads flags, then the env file, then the environment.
// Flags win over the environment, and variables already set in the
// environment win over the env file.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("voteviz", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Env file to load before reading the environment")

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.StringVar(&cfg.ShareSlugSalt, "slug-salt", "", "Share slug salt (prefer env)")

	fs.Int64Var(&cfg.Seed, "seed", 0, "Fixed random seed (0 draws a new seed per simulation)")
	fs.IntVar(&cfg.DefaultVoters, "voters", 0, "Default number of STV voters")
	fs.IntVar(&cfg.DefaultDistricts, "districts", 0, "Default number of FPTP districts")
	fs.IntVar(&cfg.DefaultElectors, "electors", 0, "Default electors per FPTP district")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		port, err := intFromEnv("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, fmt.Errorf("%w: unknown database type %q", ErrInvalidConfig, cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, fmt.Errorf("%w: database URL required for postgres (use -d or DATABASE_URL env)", ErrInvalidConfig)
		}
		cfg.DatabaseURL = "voteviz.db"
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, fmt.Errorf("%w: ADMIN_KEY_SALT required", ErrInvalidConfig)
	}

	if cfg.ShareSlugSalt == "" {
		cfg.ShareSlugSalt = os.Getenv("SHARE_SLUG_SALT")
	}
	if cfg.ShareSlugSalt == "" {
		return Config{}, fmt.Errorf("%w: SHARE_SLUG_SALT required", ErrInvalidConfig)
	}

	if cfg.Seed == 0 {
		if s := os.Getenv("VOTEVIZ_SEED"); s != "" {
			seed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return Config{}, fmt.Errorf("%w: invalid VOTEVIZ_SEED env variable", ErrInvalidConfig)
			}
			cfg.Seed = seed
		}
	}

	defaults := []struct {
		value *int
		env   string
		def   int
	}{
		{&cfg.DefaultVoters, "DEFAULT_VOTERS", 100},
		{&cfg.DefaultDistricts, "DEFAULT_DISTRICTS", 17},
		{&cfg.DefaultElectors, "DEFAULT_ELECTORS", 100},
	}
	for _, d := range defaults {
		if *d.value == 0 {
			v, err := intFromEnv(d.env, d.def)
			if err != nil {
				return Config{}, err
			}
			*d.value = v
		}
		if *d.value < 1 {
			return Config{}, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, d.env)
		}
	}

	return cfg, nil
}

// loadEnvFile loads path into the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func intFromEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s env variable", ErrInvalidConfig, key)
	}
	return v, nil
}
