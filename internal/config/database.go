package config

import (
	"fmt"
	"os"

	"splitgraph/internal/db"
)

// DatabaseType selects the build-cache backend.
type DatabaseType string

const (
	DatabaseSQLite   DatabaseType = "sqlite"
	DatabasePostgres DatabaseType = "postgres"
)

// DatabaseConfig is the environment-facing configuration for the build
// cache: a human-editable config that resolves to the lower-level
// db.Config.
type DatabaseConfig struct {
	Type DatabaseType
	Path string // SQLite file path, or ":memory:"
	DSN  string // Postgres connection string
}

// DefaultDatabaseConfig returns a SQLite cache rooted at the given path.
func DefaultDatabaseConfig(path string) DatabaseConfig {
	return DatabaseConfig{
		Type: DatabaseSQLite,
		Path: path,
	}
}

// LoadDatabaseConfigFromEnv loads cache database configuration from
// SPLITGRAPH_DB_TYPE, SPLITGRAPH_DB_PATH and SPLITGRAPH_DB_DSN, defaulting
// to a SQLite cache at .splitgraph/cache.db.
func LoadDatabaseConfigFromEnv() DatabaseConfig {
	cfg := DefaultDatabaseConfig(".splitgraph/cache.db")

	if t := os.Getenv("SPLITGRAPH_DB_TYPE"); t != "" {
		switch DatabaseType(t) {
		case DatabaseSQLite, DatabasePostgres:
			cfg.Type = DatabaseType(t)
		}
	}

	if p := os.Getenv("SPLITGRAPH_DB_PATH"); p != "" {
		cfg.Path = p
	}

	if dsn := os.Getenv("SPLITGRAPH_DB_DSN"); dsn != "" {
		cfg.DSN = dsn
	}

	return cfg
}

// String renders a human-readable summary for logging, never leaking a
// Postgres DSN's credentials.
func (c DatabaseConfig) String() string {
	if c.Type == DatabasePostgres {
		return "postgres"
	}
	return fmt.Sprintf("sqlite(%s)", c.Path)
}

// ToDBConfig converts to the lower-level db.Config the adapter opens.
func (c DatabaseConfig) ToDBConfig() db.Config {
	if c.Type == DatabasePostgres {
		return db.Config{Driver: db.DriverPostgres, DSN: c.DSN}
	}
	return db.Config{Driver: db.DriverModernc, Path: c.Path, EnableWAL: true}
}
