package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestBuildGraph_StaticAndDynamicImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "entry.js", `
import { helper } from "./helper";
const lazy = () => import("./lazy");
`)
	writeFile(t, dir, "helper.js", `export function helper() { return 1; }`)
	writeFile(t, dir, "lazy.js", `export const value = 42;`)

	mg, entries, err := BuildGraph(dir, []string{"entry.js"}, Options{})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	entry, ok := mg.Module(entries[0])
	if !ok || entry.Name != "entry.js" {
		t.Fatalf("entry module = %+v, ok=%v", entry, ok)
	}

	successors := mg.Successors(entries[0])
	if len(successors) != 2 {
		t.Fatalf("expected 2 dependencies from entry.js, got %d", len(successors))
	}

	var sawSync, sawAsync bool
	for _, e := range successors {
		target, _ := mg.Module(e.To)
		switch target.Name {
		case "helper.js":
			sawSync = !e.Async
		case "lazy.js":
			sawAsync = e.Async
		}
	}
	if !sawSync {
		t.Errorf("expected a synchronous edge to helper.js")
	}
	if !sawAsync {
		t.Errorf("expected an asynchronous edge to lazy.js")
	}
}

func TestBuildGraph_ExternalSpecifierBecomesPlaceholder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "entry.js", `import React from "react";`)

	mg, entries, err := BuildGraph(dir, []string{"entry.js"}, Options{})
	if err != nil {
		t.Fatalf("BuildGraph: %v", err)
	}

	successors := mg.Successors(entries[0])
	if len(successors) != 1 {
		t.Fatalf("expected 1 dependency, got %d", len(successors))
	}
	target, _ := mg.Module(successors[0].To)
	if target.Name != "react" || target.Size != 0 {
		t.Errorf("external module = %+v, want name=react size=0", target)
	}
}

func TestBuildGraph_UnknownEntryErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "entry.js", `export const x = 1;`)

	if _, _, err := BuildGraph(dir, []string{"missing.js"}, Options{}); err == nil {
		t.Fatal("expected an error for an unresolvable entry path")
	}
}
