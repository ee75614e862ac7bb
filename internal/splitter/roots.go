package splitter

import "splitgraph/internal/graph"

// seedRoots allocates one chunk per entry, containing just that entry
// module, and registers it in chunkRoots with chunk id == group id.
func seedRoots(st *state, entries []graph.ModuleID) error {
	for _, e := range entries {
		m, ok := st.mg.Module(e)
		if !ok {
			return &graph.InvariantError{Op: "seedRoots", Handle: e, Reason: "entry module handle not found in graph"}
		}

		chunk := &graph.Chunk{}
		chunk.AddModule(e, m.Size)
		id := st.cg.AddChunk(chunk)

		st.chunkRoots[e] = graph.ChunkRoot{ChunkID: id, GroupID: id}
	}
	return nil
}
