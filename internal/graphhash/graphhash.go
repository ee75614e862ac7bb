// Package graphhash fingerprints a module graph so that watch mode can
// tell whether a filesystem event actually changed the dependency graph
// before paying for a full re-split. The approach is Merkle-style (sha256
// of a node's own content, folded together with the sorted hashes of its
// neighbors) adapted from a tree to a graph: since
// internal/graph.ModuleGraph may contain cycles, a module's hash folds in
// only its own attributes plus its direct successors' identities, not a
// full transitive closure.
package graphhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"splitgraph/internal/graph"
)

// Snapshot is a content-addressed fingerprint of a ModuleGraph at a point
// in time: one hash per module plus a single root hash over the whole
// graph.
type Snapshot struct {
	ModuleHashes map[string]string // module name -> hash
	Root         string
	ModuleCount  int
}

// Build computes a Snapshot from mg. Module names are assumed unique;
// duplicate names collapse to the last-seen module's hash, mirroring how
// a real build would reject duplicate module identities upstream.
func Build(mg *graph.ModuleGraph) *Snapshot {
	hashes := make(map[string]string, mg.NodeCount())

	for _, id := range mg.Modules() {
		m, ok := mg.Module(id)
		if !ok {
			continue
		}

		h := sha256.New()
		fmt.Fprintf(h, "module:%s:%d", m.Name, m.Size)

		type edgeKey struct {
			name  string
			async bool
		}
		var edges []edgeKey
		for _, e := range mg.Successors(id) {
			target, ok := mg.Module(e.To)
			if !ok {
				continue
			}
			edges = append(edges, edgeKey{name: target.Name, async: e.Async})
		}
		sort.Slice(edges, func(i, j int) bool {
			if edges[i].name != edges[j].name {
				return edges[i].name < edges[j].name
			}
			return !edges[i].async && edges[j].async
		})
		for _, e := range edges {
			fmt.Fprintf(h, "|edge:%s:%v", e.name, e.async)
		}

		hashes[m.Name] = hex.EncodeToString(h.Sum(nil))
	}

	return &Snapshot{
		ModuleHashes: hashes,
		Root:         rootHash(hashes),
		ModuleCount:  len(hashes),
	}
}

func rootHash(hashes map[string]string) string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)

	h := sha256.New()
	for _, name := range names {
		fmt.Fprintf(h, "%s:%s\n", name, hashes[name])
	}
	return hex.EncodeToString(h.Sum(nil))
}
