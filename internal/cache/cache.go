// Package cache persists computed chunk graphs keyed by the content hash
// of the module graph that produced them, so that repeated builds with an
// unchanged dependency graph and config can skip internal/splitter.Split
// entirely. It builds on internal/db's adapter/schema/dialect split
// (originally used for an HNSW vector index) as a small single-table
// cache.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"splitgraph/internal/db"
	"splitgraph/internal/graph"
)

const tableName = "chunk_graph_cache"

// Store is a build cache backed by a db.DB.
type Store struct {
	db     db.DB
	schema *db.SchemaBuilder
}

// Open opens (creating if necessary) the cache database described by cfg
// and ensures its schema exists.
func Open(cfg db.Config) (*Store, error) {
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache: opening database: %w", err)
	}

	s := &Store{db: conn, schema: db.NewSchemaBuilderFromConfig(conn, cfg)}
	if err := s.ensureSchema(context.Background()); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	if err := s.schema.RunInitStatements(ctx); err != nil {
		return fmt.Errorf("cache: running init statements: %w", err)
	}
	columns := []db.ColumnDef{
		{Name: "graph_hash", Type: "TEXT", PrimaryKey: true},
		{Name: "entries_hash", Type: "TEXT", NotNull: true},
		{Name: "config_hash", Type: "TEXT", NotNull: true},
		{Name: "chunk_graph_json", Type: "BLOB", NotNull: true},
		{Name: "created_at", Type: "TIMESTAMP", NotNull: true},
	}
	if err := s.schema.CreateTable(ctx, tableName, columns); err != nil {
		return fmt.Errorf("cache: creating %s: %w", tableName, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get looks up a previously stored chunk graph for the given graph/entries/
// config hashes. The second return value reports whether a cache entry was
// found.
func (s *Store) Get(ctx context.Context, graphHash, entriesHash, configHash string) (*graph.ChunkGraph, bool, error) {
	row := s.schema.Query(tableName).
		Select("chunk_graph_json", "entries_hash", "config_hash").
		Where(s.schema.SubstitutePlaceholders("graph_hash = ?"), graphHash).
		ExecRow(ctx)

	var blob []byte
	var storedEntriesHash, storedConfigHash string
	if err := row.Scan(&blob, &storedEntriesHash, &storedConfigHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache: reading %s: %w", graphHash, err)
	}

	if storedEntriesHash != entriesHash || storedConfigHash != configHash {
		// Same module graph content, but different entries or tuning
		// parameters produce a different chunk graph: treat as a miss.
		return nil, false, nil
	}

	cg := graph.NewChunkGraph()
	if err := json.Unmarshal(blob, cg); err != nil {
		return nil, false, fmt.Errorf("cache: decoding cached chunk graph: %w", err)
	}
	return cg, true, nil
}

// Put stores cg under the given graph/entries/config hashes, overwriting
// any existing entry for graphHash.
func (s *Store) Put(ctx context.Context, graphHash, entriesHash, configHash string, cg *graph.ChunkGraph, now time.Time) error {
	blob, err := json.Marshal(cg)
	if err != nil {
		return fmt.Errorf("cache: encoding chunk graph: %w", err)
	}

	_, err = s.schema.Upsert(ctx, tableName,
		[]string{"graph_hash", "entries_hash", "config_hash", "chunk_graph_json", "created_at"},
		[]string{"graph_hash"},
		nil,
		graphHash, entriesHash, configHash, blob, now,
	)
	if err != nil {
		return fmt.Errorf("cache: writing %s: %w", graphHash, err)
	}
	return nil
}
