package db

import (
	"fmt"
	"strconv"
	"strings"
)

// ColumnDef describes one column for SchemaBuilder.CreateTable.
type ColumnDef struct {
	Name       string
	Type       string // dialect-neutral: "TEXT", "INTEGER", "BLOB", "TIMESTAMP"
	PrimaryKey bool
	NotNull    bool
}

// Dialect generates dialect-specific SQL for the handful of operations the
// build cache needs: table/index creation, upserts, and placeholder style.
type Dialect interface {
	Name() string
	Placeholder(argIndex int) string
	CreateTableSQL(table string, columns []ColumnDef) string
	CreateIndexSQL(table, indexName string, columns []string, unique bool) string
	UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string
	InitStatements() []string
}

// SQLiteDialect targets modernc.org/sqlite.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string                     { return "sqlite" }
func (SQLiteDialect) Placeholder(argIndex int) string   { return "?" }
func (SQLiteDialect) InitStatements() []string {
	return []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
	}
}

func (SQLiteDialect) CreateTableSQL(table string, columns []ColumnDef) string {
	return buildCreateTable("sqlite", table, columns)
}

func (SQLiteDialect) CreateIndexSQL(table, indexName string, columns []string, unique bool) string {
	return buildCreateIndex(indexName, table, columns, unique)
}

func (SQLiteDialect) UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "?"
	}
	return buildUpsert(table, columns, conflictColumns, updateColumns, placeholders, func(c string) string { return "?" })
}

// PostgresDialect targets github.com/lib/pq.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Placeholder(argIndex int) string {
	return "$" + strconv.Itoa(argIndex)
}

func (PostgresDialect) InitStatements() []string {
	return nil
}

func (PostgresDialect) CreateTableSQL(table string, columns []ColumnDef) string {
	return buildCreateTable("postgres", table, columns)
}

func (PostgresDialect) CreateIndexSQL(table, indexName string, columns []string, unique bool) string {
	return buildCreateIndex(indexName, table, columns, unique)
}

func (PostgresDialect) UpsertSQL(table string, columns, conflictColumns, updateColumns []string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}
	n := len(columns)
	return buildUpsert(table, columns, conflictColumns, updateColumns, placeholders, func(c string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func buildCreateTable(dialect, table string, columns []ColumnDef) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		typ := columnType(dialect, col.Type)
		def := col.Name + " " + typ
		if col.PrimaryKey {
			def += " PRIMARY KEY"
		} else if col.NotNull {
			def += " NOT NULL"
		}
		defs[i] = def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

func columnType(dialect, neutral string) string {
	if dialect == "postgres" && neutral == "BLOB" {
		return "BYTEA"
	}
	if dialect == "postgres" && neutral == "TIMESTAMP" {
		return "TIMESTAMPTZ"
	}
	return neutral
}

func buildCreateIndex(indexName, table string, columns []string, unique bool) string {
	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kind, indexName, table, strings.Join(columns, ", "))
}

func buildUpsert(table string, columns, conflictColumns, updateColumns []string, placeholders []string, nextPlaceholder func(string) string) string {
	if len(updateColumns) == 0 {
		updateColumns = updateColumns[:0]
		for _, c := range columns {
			if !contains(conflictColumns, c) {
				updateColumns = append(updateColumns, c)
			}
		}
	}

	setClauses := make([]string, len(updateColumns))
	for i, c := range updateColumns {
		setClauses[i] = fmt.Sprintf("%s = excluded.%s", c, c)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(conflictColumns, ", "),
		strings.Join(setClauses, ", "),
	)
}

func contains(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}
