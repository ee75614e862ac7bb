package splitter

import "splitgraph/internal/graph"

type frame struct {
	module  graph.ModuleID
	groupID graph.ChunkID
}

// discoverAsyncSplits walks G_m with a single depth-first search starting
// from every entry, in the order supplied. A
// traversal-local stack mirrors the chain of enclosing chunk roots; at
// every async tree edge a new chunk is allocated for the target and every
// frame on the stack records dominance over it in ReachableChunks.
//
// The Discover event for an async split target only fires on the
// recursive descent into it, which happens after the TreeEdge that
// promoted it to a root — so by the time Discover runs, ChunkRoots
// already has an entry for it and it is correctly pushed.
func discoverAsyncSplits(st *state, entries []graph.ModuleID) error {
	visited := make(map[graph.ModuleID]bool)
	var stack []frame

	var discover func(u graph.ModuleID) error
	discover = func(u graph.ModuleID) error {
		visited[u] = true
		if root, ok := st.chunkRoots[u]; ok {
			stack = append(stack, frame{module: u, groupID: root.GroupID})
		}

		for _, e := range st.mg.Successors(u) {
			if visited[e.To] {
				continue // not a tree edge; DFS back/cross/forward edges are ignored
			}
			if e.Async {
				target, ok := st.mg.Module(e.To)
				if !ok {
					return &graph.InvariantError{Op: "discoverAsyncSplits", Handle: e.To, Reason: "async dependency target not found in graph"}
				}
				chunk := &graph.Chunk{}
				chunk.AddModule(e.To, target.Size)
				id := st.cg.AddChunk(chunk)
				st.chunkRoots[e.To] = graph.ChunkRoot{ChunkID: id, GroupID: id}

				for _, f := range stack {
					st.reachableChunks[pair{f.module, e.To}] = true
				}
			}
			if err := discover(e.To); err != nil {
				return err
			}
		}

		if len(stack) > 0 && stack[len(stack)-1].module == u {
			stack = stack[:len(stack)-1]
		}
		return nil
	}

	for _, e := range entries {
		if !visited[e] {
			if err := discover(e); err != nil {
				return err
			}
		}
	}
	return nil
}
