package splitter

import (
	"strconv"
	"strings"

	"splitgraph/internal/graph"
)

// placeModules assigns every module to a chunk keyed by the minimal
// (dominance-filtered) set of roots reaching it, creating shared chunks on
// demand and wiring chunk-group edges.
func placeModules(st *state) error {
	chunks := make(map[string]graph.ChunkID)
	for root, cr := range st.chunkRoots {
		chunks[chunkKey([]graph.ModuleID{root})] = cr.ChunkID
	}

	for _, m := range st.mg.Modules() {
		reachable := dominanceFilter(st.reachableRootsOf[m], st.reachableChunks)

		if root, isRoot := st.chunkRoots[m]; isRoot {
			chunks[chunkKey([]graph.ModuleID{m})] = root.ChunkID
			for _, a := range reachable {
				if a == m {
					continue
				}
				aRoot, ok := st.chunkRoots[a]
				if !ok {
					return &graph.InvariantError{Op: "placeModules", Handle: a, Reason: "reachable root has no chunk root entry"}
				}
				st.cg.AddEdge(aRoot.GroupID, root.ChunkID)
			}
			continue
		}

		if len(reachable) == 0 {
			continue // dead module: unreachable from any entry, left unplaced
		}

		key := chunkKey(reachable)
		chunkID, exists := chunks[key]
		if !exists {
			sourceChunks := make([]graph.ChunkID, 0, len(reachable))
			for _, a := range reachable {
				sourceChunks = append(sourceChunks, st.chunkRoots[a].ChunkID)
			}
			chunkID = st.cg.AddChunk(&graph.Chunk{SourceChunks: sourceChunks})
			chunks[key] = chunkID
		}

		chunk, ok := st.cg.Chunk(chunkID)
		if !ok {
			return &graph.InvariantError{Op: "placeModules", Handle: chunkID, Reason: "shared chunk vanished during placement"}
		}
		mod, ok := st.mg.Module(m)
		if !ok {
			return &graph.InvariantError{Op: "placeModules", Handle: m, Reason: "module handle not found in graph"}
		}
		chunk.AddModule(m, mod.Size)

		for _, a := range reachable {
			aRoot := st.chunkRoots[a]
			if aRoot.ChunkID != chunkID {
				st.cg.AddEdge(aRoot.GroupID, chunkID)
			}
		}
	}

	return nil
}

// dominanceFilter drops root b from reachable whenever some sibling root a
// in reachable dominates it via the async-ancestor relation.
func dominanceFilter(reachable []graph.ModuleID, reachableChunks map[pair]bool) []graph.ModuleID {
	if len(reachable) == 0 {
		return nil
	}
	filtered := make([]graph.ModuleID, 0, len(reachable))
	for _, b := range reachable {
		dominated := false
		for _, a := range reachable {
			if reachableChunks[pair{a, b}] {
				dominated = true
				break
			}
		}
		if !dominated {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// chunkKey renders a sorted tuple of root module handles as a stable map
// key. Callers pass already-ascending slices (reachableRootsOf is built in
// ascending root order and dominanceFilter preserves that order), so no
// sort is performed here beyond what callers already guarantee.
func chunkKey(roots []graph.ModuleID) string {
	parts := make([]string, len(roots))
	for i, r := range roots {
		parts[i] = strconv.Itoa(int(r))
	}
	return strings.Join(parts, ",")
}
