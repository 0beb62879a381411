// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Backend selects the BlobStore implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SecretKey string
	Owner     string
	DataDir   string
	Backend   Backend
	DBPath    string
	LogLevel  slog.Level
}

// HasSecretKey reports whether the document encryption secret is set.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// PASSENGER_SECRET_KEY is read but not required here. Optional variables with
// defaults: PASSENGER_OWNER (current OS user), PASSENGER_DATA_DIR
// (<user config dir>/passenger), PASSENGER_BACKEND (file),
// PASSENGER_DB_PATH (<data dir>/passenger.db), PASSENGER_LOG_LEVEL (warn).
func Load() (*Config, error) {
	secret := os.Getenv("PASSENGER_SECRET_KEY")

	owner := os.Getenv("PASSENGER_OWNER")
	if owner == "" {
		owner = defaultOwner()
	}

	dataDir := os.Getenv("PASSENGER_DATA_DIR")
	if dataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("PASSENGER_DATA_DIR is unset and the user config dir is unknown: %w", err)
		}
		dataDir = filepath.Join(base, "passenger")
	}

	backend := BackendFile
	if v, ok := os.LookupEnv("PASSENGER_BACKEND"); ok && v != "" {
		switch b := Backend(strings.ToLower(strings.TrimSpace(v))); b {
		case BackendFile, BackendSQLite:
			backend = b
		default:
			return nil, fmt.Errorf("PASSENGER_BACKEND has invalid value %q: want %q or %q", v, BackendFile, BackendSQLite)
		}
	}

	dbPath := filepath.Join(dataDir, "passenger.db")
	if v, ok := os.LookupEnv("PASSENGER_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	level := slog.LevelWarn
	if v, ok := os.LookupEnv("PASSENGER_LOG_LEVEL"); ok && v != "" {
		if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return nil, fmt.Errorf("PASSENGER_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return &Config{
		SecretKey: secret,
		Owner:     owner,
		DataDir:   dataDir,
		Backend:   backend,
		DBPath:    dbPath,
		LogLevel:  level,
	}, nil
}

func defaultOwner() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
