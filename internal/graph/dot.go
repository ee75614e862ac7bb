package graph

import (
	"fmt"
	"strings"
)

// DOT renders the module graph in Graphviz dot format. Optional tooling for
// inspecting a graph, not part of the splitting algorithm itself.
func (g *ModuleGraph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, id := range g.Modules() {
		m, _ := g.Module(id)
		fmt.Fprintf(&b, "    %d [label=%q]\n", id, fmt.Sprintf("%s (%d)", m.Name, m.Size))
	}
	for _, id := range g.Modules() {
		for _, e := range g.Successors(id) {
			label := "sync"
			if e.Async {
				label = "async"
			}
			fmt.Fprintf(&b, "    %d -> %d [label=%q]\n", id, e.To, label)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// DOT renders the chunk graph in Graphviz dot format.
func (g *ChunkGraph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, id := range g.Chunks() {
		c, _ := g.Chunk(id)
		fmt.Fprintf(&b, "    %d [label=%q]\n", id, fmt.Sprintf("chunk %d (size %d)", id, c.Size))
	}
	for _, id := range g.Chunks() {
		for _, to := range g.Successors(id) {
			fmt.Fprintf(&b, "    %d -> %d\n", id, to)
		}
	}
	b.WriteString("}\n")
	return b.String()
}
