package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"splitgraph/internal/cache"
	"splitgraph/internal/config"
	"splitgraph/internal/discover"
	"splitgraph/internal/graph"
	"splitgraph/internal/graphhash"
	"splitgraph/internal/report"
	"splitgraph/internal/splitter"
)

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	minChunkSize := fs.Int("min-chunk-size", -1, "Minimum shared-chunk size before dissolution")
	parallelLimit := fs.Int("parallel-limit", -1, "Max chunks one entry may load in parallel")
	jsonOutput := fs.Bool("json", false, "Output the report as JSON")
	dot := fs.Bool("dot", false, "Also print the chunk graph in Graphviz dot format")
	useCache := fs.Bool("cache", false, "Use the on-disk build cache")
	fs.Parse(args)

	if fs.NArg() < 2 {
		logger.Error("build requires a directory and at least one entry path")
		os.Exit(1)
	}
	dir := fs.Arg(0)
	entryPaths := fs.Args()[1:]

	cfg := config.LoadSplitConfigFromEnv()
	if *minChunkSize >= 0 {
		cfg.MinSharedChunkSize = *minChunkSize
	}
	if *parallelLimit >= 0 {
		cfg.ParallelRequestLimit = *parallelLimit
	}

	mg, entries, err := discover.BuildGraph(dir, entryPaths, discover.Options{})
	if err != nil {
		logger.Error("discovering module graph failed", "error", err)
		os.Exit(1)
	}
	logger.Info("discovered module graph", "modules", mg.NodeCount(), "entries", len(entries))

	snapshot := graphhash.Build(mg)
	entriesHash := hashEntries(entryPaths)
	configHash := hashConfig(cfg)

	var store *cache.Store
	if *useCache {
		dbCfg := config.LoadDatabaseConfigFromEnv().ToDBConfig()
		store, err = cache.Open(dbCfg)
		if err != nil {
			logger.Error("opening build cache failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	cg, err := splitWithCache(store, mg, entries, cfg, snapshot.Root, entriesHash, configHash)
	if err != nil {
		logger.Error("splitting module graph failed", "error", err)
		os.Exit(1)
	}

	summary := report.Build(cg, mg, uuid.New())
	if *jsonOutput {
		if err := report.WriteJSON(os.Stdout, summary); err != nil {
			logger.Error("encoding JSON report failed", "error", err)
			os.Exit(1)
		}
	} else if err := report.WriteText(os.Stdout, summary); err != nil {
		logger.Error("writing report failed", "error", err)
		os.Exit(1)
	}

	if *dot {
		fmt.Println(cg.DOT())
	}
}

// splitWithCache looks up a cached chunk graph before falling back to
// splitter.Split, storing the freshly computed result when store is
// non-nil.
func splitWithCache(store *cache.Store, mg *graph.ModuleGraph, entries []graph.ModuleID, cfg config.SplitConfig, graphHash, entriesHash, configHash string) (*graph.ChunkGraph, error) {
	ctx := context.Background()

	if store != nil {
		if cg, hit, err := store.Get(ctx, graphHash, entriesHash, configHash); err != nil {
			logger.Warn("build cache lookup failed", "error", err)
		} else if hit {
			logger.Info("build cache hit", "graph_hash", graphHash)
			return cg, nil
		}
	}

	cg, err := splitter.Split(mg, entries, cfg)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(ctx, graphHash, entriesHash, configHash, cg, time.Now()); err != nil {
			logger.Warn("build cache write failed", "error", err)
		}
	}
	return cg, nil
}

func hashEntries(entryPaths []string) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(entryPaths, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}

func hashConfig(cfg config.SplitConfig) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d:%d", cfg.MinSharedChunkSize, cfg.ParallelRequestLimit)
	return hex.EncodeToString(h.Sum(nil))
}
