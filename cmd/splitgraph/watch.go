package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"splitgraph/internal/config"
	"splitgraph/internal/discover"
	"splitgraph/internal/graphhash"
	"splitgraph/internal/report"
	"splitgraph/internal/splitter"

	"github.com/google/uuid"
)

// runWatch rebuilds the chunk graph whenever a filesystem event actually
// changes the discovered module graph, skipping re-splits for no-op
// events (an editor swap file or other non-source file, a save that
// leaves a file's byte length and imports unchanged).
func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		logger.Error("watch requires a directory and at least one entry path")
		os.Exit(1)
	}
	dir := fs.Arg(0)
	entryPaths := fs.Args()[1:]
	cfg := config.LoadSplitConfigFromEnv()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("creating watcher failed", "error", err)
		os.Exit(1)
	}
	defer watcher.Close()

	if err := addRecursive(watcher, dir); err != nil {
		logger.Error("watching directory failed", "error", err)
		os.Exit(1)
	}

	var previous *graphhash.Snapshot
	rebuild := func() {
		mg, entries, err := discover.BuildGraph(dir, entryPaths, discover.Options{})
		if err != nil {
			logger.Error("discovering module graph failed", "error", err)
			return
		}

		snapshot := graphhash.Build(mg)
		changes := graphhash.Diff(previous, snapshot)
		if previous != nil && changes.IsEmpty() {
			logger.Debug("no dependency-graph change, skipping re-split")
			return
		}
		previous = snapshot

		cg, err := splitter.Split(mg, entries, cfg)
		if err != nil {
			logger.Error("splitting module graph failed", "error", err)
			return
		}

		summary := report.Build(cg, mg, uuid.New())
		if err := report.WriteText(os.Stdout, summary); err != nil {
			logger.Error("writing report failed", "error", err)
			return
		}
		logger.Info("rebuilt", "changed_modules", changes.Total())
	}

	rebuild()
	logger.Info("watching for changes", "dir", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				rebuild()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		switch d.Name() {
		case ".git", "node_modules", "dist", ".splitgraph":
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
