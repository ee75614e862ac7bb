// Package discover builds a real internal/graph.ModuleGraph from a
// JavaScript/TypeScript source tree. The splitting core (internal/splitter)
// consumes a pre-built graph and never touches a filesystem or a parser;
// this package is the external collaborator that makes the repository
// runnable end to end.
package discover

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"splitgraph/internal/graph"
)

// Options configures a BuildGraph call.
type Options struct {
	// IgnorePatterns are extra gitignore-style patterns applied on top of
	// the two gitignore files loaded automatically: ~/.gitignore and
	// root's own .gitignore. Nested .gitignore files are not read.
	IgnorePatterns []string
}

// BuildGraph walks root, parses every JS/TS file it finds, and returns
// the resulting module graph plus the resolved handles for entryPaths
// (given relative to root).
func BuildGraph(root string, entryPaths []string, opts Options) (*graph.ModuleGraph, []graph.ModuleID, error) {
	b := &builder{
		root:     root,
		mg:       graph.NewModuleGraph(),
		idByPath: make(map[string]graph.ModuleID),
		extIDs:   make(map[string]graph.ModuleID),
	}
	b.gi = loadIgnore(root, opts.IgnorePatterns)

	files, err := b.collectFiles()
	if err != nil {
		return nil, nil, fmt.Errorf("discover: collecting source files: %w", err)
	}

	for _, f := range files {
		if _, err := b.moduleFor(f); err != nil {
			return nil, nil, fmt.Errorf("discover: registering %s: %w", f, err)
		}
	}
	for _, f := range files {
		if err := b.parseDependencies(f); err != nil {
			return nil, nil, fmt.Errorf("discover: parsing %s: %w", f, err)
		}
	}

	entries := make([]graph.ModuleID, 0, len(entryPaths))
	for _, p := range entryPaths {
		abs := filepath.Clean(filepath.Join(root, p))
		id, ok := b.idByPath[abs]
		if !ok {
			return nil, nil, fmt.Errorf("discover: entry %q not found under %s", p, root)
		}
		entries = append(entries, id)
	}

	return b.mg, entries, nil
}

type builder struct {
	root     string
	gi       *ignore.GitIgnore
	mg       *graph.ModuleGraph
	idByPath map[string]graph.ModuleID
	extIDs   map[string]graph.ModuleID // bare specifier -> placeholder module
}

func (b *builder) collectFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(b.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(b.root, path)
		if relErr != nil {
			return relErr
		}

		if d.IsDir() {
			switch d.Name() {
			case ".git", "node_modules", "dist", ".splitgraph":
				return filepath.SkipDir
			}
			if rel != "." && b.gi != nil && b.gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !isSourceFile(path) {
			return nil
		}
		if b.gi != nil && b.gi.MatchesPath(rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

func (b *builder) moduleFor(path string) (graph.ModuleID, error) {
	if id, ok := b.idByPath[path]; ok {
		return id, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	name, err := filepath.Rel(b.root, path)
	if err != nil {
		name = path
	}
	id, err := b.mg.AddModule(name, len(content))
	if err != nil {
		return 0, err
	}
	b.idByPath[path] = id
	return id, nil
}

// externalModule returns (creating if needed) a zero-size placeholder
// module for a bare import specifier (e.g. "react") whose source is not
// part of the tree being discovered.
func (b *builder) externalModule(spec string) (graph.ModuleID, error) {
	if id, ok := b.extIDs[spec]; ok {
		return id, nil
	}
	id, err := b.mg.AddModule(spec, 0)
	if err != nil {
		return 0, err
	}
	b.extIDs[spec] = id
	return id, nil
}

func isSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

func loadIgnore(root string, extra []string) *ignore.GitIgnore {
	var patterns []string

	if homeDir, err := os.UserHomeDir(); err == nil {
		if content, err := os.ReadFile(filepath.Join(homeDir, ".gitignore")); err == nil {
			patterns = append(patterns, splitNonEmptyLines(string(content))...)
		}
	}
	if content, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		patterns = append(patterns, splitNonEmptyLines(string(content))...)
	}
	patterns = append(patterns, extra...)

	if len(patterns) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(patterns...)
}

func splitNonEmptyLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '\n' {
			line := s[start:i]
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			if line != "" && line[0] != '#' {
				lines = append(lines, line)
			}
			start = i + 1
		}
	}
	return lines
}
