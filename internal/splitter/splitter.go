// Package splitter implements the five-pass chunking algorithm: it
// consumes a module graph and a list of entries and produces a chunk
// graph. The algorithm is a pure function of its inputs — no I/O, no
// concurrency, no cancellation.
package splitter

import (
	"splitgraph/internal/config"
	"splitgraph/internal/graph"
)

// state threads the intermediate structures every pass reads or writes:
// chunkRoots (the entry/async-split chunk roots), reachableChunks
// (dominance pairs from step 2), reachableRootsOf (root->module claims
// from step 3), and the chunk graph under construction.
type state struct {
	mg *graph.ModuleGraph
	cg *graph.ChunkGraph

	chunkRoots      map[graph.ModuleID]graph.ChunkRoot
	reachableChunks map[pair]bool // (ancestorRootModule, descendantRootModule)

	// reachableRootsOf[m] lists the roots that reach m without crossing
	// another root, in ascending root ModuleID order.
	reachableRootsOf map[graph.ModuleID][]graph.ModuleID
}

type pair struct {
	a, b graph.ModuleID
}

// Split runs all five passes and returns the resulting chunk graph.
func Split(mg *graph.ModuleGraph, entries []graph.ModuleID, cfg config.SplitConfig) (*graph.ChunkGraph, error) {
	st := &state{
		mg:               mg,
		cg:               graph.NewChunkGraph(),
		chunkRoots:       make(map[graph.ModuleID]graph.ChunkRoot),
		reachableChunks:  make(map[pair]bool),
		reachableRootsOf: make(map[graph.ModuleID][]graph.ModuleID),
	}

	if err := seedRoots(st, entries); err != nil {
		return nil, err
	}
	if err := discoverAsyncSplits(st, entries); err != nil {
		return nil, err
	}
	if err := computeRootReachability(st); err != nil {
		return nil, err
	}
	if err := placeModules(st); err != nil {
		return nil, err
	}
	pruneSharedChunks(st.cg, mg, cfg)

	return st.cg, nil
}
