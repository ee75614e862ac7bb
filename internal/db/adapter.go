// Package db is a minimal, dialect-aware database adapter used by the
// build cache (internal/cache) to persist computed chunk graphs. It wraps
// database/sql behind a small interface so the cache can target SQLite
// (modernc.org/sqlite, pure Go, no cgo) or PostgreSQL (github.com/lib/pq)
// without depending on either driver directly.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver identifies which SQL driver a Config opens.
type Driver string

const (
	DriverModernc Driver = "modernc"
	DriverPostgres Driver = "postgres"
	// DriverNcruces names the cgo-free wazero-based sqlite driver some
	// deployments prefer over modernc's; wiring it is left for when that
	// module is actually added to go.mod.
	DriverNcruces Driver = "ncruces"
)

// Config selects and configures a database connection.
type Config struct {
	Driver    Driver
	Path      string // SQLite file path, or ":memory:"
	DSN       string // Postgres connection string
	EnableWAL bool   // SQLite only
}

// DefaultConfig returns a modernc SQLite config for the given path.
func DefaultConfig(path string) Config {
	return Config{Driver: DriverModernc, Path: path, EnableWAL: true}
}

// Dialect returns the SQL dialect matching cfg's driver.
func (c Config) Dialect() Dialect {
	if c.Driver == DriverPostgres {
		return &PostgresDialect{}
	}
	return &SQLiteDialect{}
}

// DB is the subset of *sql.DB (and *sql.Tx) the schema and cache packages
// need. *sql.DB already satisfies it.
type DB interface {
	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Begin() (*sql.Tx, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	Ping() error
	Close() error
}

// Result and Row/Rows are aliases kept around so callers (SchemaBuilder,
// QueryBuilder) can spell the stdlib types through this package instead of
// importing database/sql directly.
type (
	Result = sql.Result
	Row    = *sql.Row
	Rows   = *sql.Rows
)

// ModerncDB wraps a *sql.DB opened against modernc.org/sqlite.
type ModerncDB struct {
	*sql.DB
}

// Unwrap returns the underlying *sql.DB.
func (m *ModerncDB) Unwrap() *sql.DB { return m.DB }

// WrapSQL adapts an already-open *sql.DB to the DB interface.
func WrapSQL(sqlDB *sql.DB) DB {
	return &ModerncDB{DB: sqlDB}
}

// OpenModernc opens a SQLite database via the pure-Go modernc.org/sqlite
// driver, creating the parent directory and enabling WAL mode when
// requested.
func OpenModernc(cfg Config) (*ModerncDB, error) {
	if cfg.Path != ":memory:" && cfg.Path != "" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("db: creating parent directory for %s: %w", cfg.Path, err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("db: opening sqlite %s: %w", cfg.Path, err)
	}

	if cfg.EnableWAL {
		if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("db: enabling WAL mode: %w", err)
		}
	}

	return &ModerncDB{DB: sqlDB}, nil
}

// OpenPostgres opens a PostgreSQL database via github.com/lib/pq.
func OpenPostgres(cfg Config) (DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db: opening postgres: %w", err)
	}
	return sqlDB, nil
}

// Open dispatches to the driver-specific opener named by cfg.Driver.
func Open(cfg Config) (DB, error) {
	switch cfg.Driver {
	case DriverModernc, "":
		return OpenModernc(cfg)
	case DriverPostgres:
		return OpenPostgres(cfg)
	case DriverNcruces:
		return nil, fmt.Errorf("db: driver %q is not implemented", cfg.Driver)
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}
}
