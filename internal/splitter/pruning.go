package splitter

import (
	"sort"

	"splitgraph/internal/config"
	"splitgraph/internal/graph"
)

// pruneSharedChunks dissolves shared chunks below the minimum size back
// into their sources, then enforces the per-chunk-group parallel load
// limit by evicting the smallest directly loaded chunks first.
func pruneSharedChunks(cg *graph.ChunkGraph, mg *graph.ModuleGraph, cfg config.SplitConfig) {
	dissolveBelowMinSize(cg, mg, cfg.MinSharedChunkSize)
	enforceParallelLimit(cg, mg, cfg.ParallelRequestLimit)
}

// dissolveBelowMinSize is Pass A. It snapshots the node id set before
// mutating, since dissolving a node removes it from the live set mid-loop.
func dissolveBelowMinSize(cg *graph.ChunkGraph, mg *graph.ModuleGraph, minSize int) {
	for _, id := range cg.Chunks() {
		c, ok := cg.Chunk(id)
		if !ok {
			continue // already dissolved earlier in this same pass
		}
		if len(c.SourceChunks) > 0 && c.Size < minSize {
			dissolve(cg, mg, id, c.SourceChunks)
		}
	}
}

// enforceParallelLimit is Pass B. For every chunk-group root whose direct
// successor count exceeds the limit, the smallest successors are evicted
// (ties broken by ascending chunk id for determinism) until the count
// matches the limit.
func enforceParallelLimit(cg *graph.ChunkGraph, mg *graph.ModuleGraph, limit int) {
	if limit <= 0 {
		return // unbounded
	}

	for _, g := range entryChunks(cg) {
		successors := cg.Successors(g)
		if len(successors) <= limit {
			continue
		}

		sort.Slice(successors, func(i, j int) bool {
			ci, _ := cg.Chunk(successors[i])
			cj, _ := cg.Chunk(successors[j])
			if ci.Size != cj.Size {
				return ci.Size < cj.Size
			}
			return successors[i] < successors[j]
		})

		victims := successors[:len(successors)-limit]
		for _, v := range victims {
			victim, ok := cg.Chunk(v)
			if !ok {
				continue
			}

			for _, s := range victim.SourceChunks {
				if !containsChunkID(successors, s) {
					continue // only fold into chunks this same group still loads
				}
				sibling, ok := cg.Chunk(s)
				if !ok {
					continue
				}
				for _, mid := range victim.ModuleIDs {
					appendModule(sibling, mg, mid)
				}
			}

			cg.RemoveEdge(g, v)

			switch cg.InDegree(v) {
			case 0:
				cg.RemoveNode(v)
			case 1:
				dissolve(cg, mg, v, cg.Predecessors(v))
			default:
				// still loaded by at least two groups; leave for them to handle
			}
		}
	}
}

// entryChunks returns a snapshot of every chunk-group root (a chunk with
// no source chunks) currently in the graph.
func entryChunks(cg *graph.ChunkGraph) []graph.ChunkID {
	var roots []graph.ChunkID
	for _, id := range cg.Chunks() {
		c, ok := cg.Chunk(id)
		if ok && c.IsEntry() {
			roots = append(roots, id)
		}
	}
	return roots
}

// dissolve removes chunk id and redistributes its member modules into
// every chunk in targets, duplicating modules across them.
func dissolve(cg *graph.ChunkGraph, mg *graph.ModuleGraph, id graph.ChunkID, targets []graph.ChunkID) {
	c, ok := cg.Chunk(id)
	if !ok {
		return
	}
	moduleIDs := append([]graph.ModuleID(nil), c.ModuleIDs...)
	cg.RemoveNode(id)

	for _, target := range targets {
		t, ok := cg.Chunk(target)
		if !ok {
			continue
		}
		for _, mid := range moduleIDs {
			appendModule(t, mg, mid)
		}
	}
}

func appendModule(c *graph.Chunk, mg *graph.ModuleGraph, id graph.ModuleID) {
	m, ok := mg.Module(id)
	if !ok {
		return
	}
	c.AddModule(id, m.Size)
}

func containsChunkID(ids []graph.ChunkID, target graph.ChunkID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
