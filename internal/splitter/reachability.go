package splitter

import (
	"sort"

	"splitgraph/internal/graph"
)

// computeRootReachability walks G_m from each root and records every
// module reached without crossing another root.
// Insertion of (r, n) happens before the prune check, so a root n itself
// reached from r is recorded (and will be considered during placement);
// the prune only stops descent past it.
//
// Roots are processed in ascending ModuleID order so that
// state.reachableRootsOf ends up populated in deterministic, ascending
// root order for every module — exactly the sorted order step 4 needs.
func computeRootReachability(st *state) error {
	for _, r := range sortedRoots(st) {
		visited := map[graph.ModuleID]bool{r: true}

		var walk func(u graph.ModuleID)
		walk = func(u graph.ModuleID) {
			for _, e := range st.mg.Successors(u) {
				v := e.To
				if visited[v] {
					continue
				}
				visited[v] = true

				st.reachableRootsOf[v] = append(st.reachableRootsOf[v], r)

				if _, isRoot := st.chunkRoots[v]; isRoot {
					continue // prune: the descendant root owns its own subtree
				}
				walk(v)
			}
		}
		walk(r)
	}
	return nil
}

func sortedRoots(st *state) []graph.ModuleID {
	roots := make([]graph.ModuleID, 0, len(st.chunkRoots))
	for r := range st.chunkRoots {
		roots = append(roots, r)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots
}
