// Package graph implements the two graphs the splitting algorithm operates
// over: the input module-dependency graph (G_m) and the output chunk graph
// (G_c). Both are plain adjacency-list structures with stable,
// insertion-ordered iteration so that a given input always produces an
// isomorphic output.
package graph

import "fmt"

// ModuleID is the opaque stable handle identifying a module. Handles are
// assigned in the order modules are added to a ModuleGraph and never reused.
type ModuleID int

// Module is a node of G_m: a unit of source input with a display name and a
// non-negative size used for chunk-size accounting.
type Module struct {
	ID   ModuleID
	Name string
	Size int
}

// Dependency is an edge of G_m, directed importer -> importee.
type Dependency struct {
	Async bool
}

// Edge pairs a dependency's target with its attributes, as returned by
// ModuleGraph.Successors.
type Edge struct {
	To ModuleID
	Dependency
}

// ModuleGraph is G_m: a directed graph of modules and their dependencies.
// Node and edge order is the order of insertion, which the splitter relies
// on for deterministic DFS tie-breaking.
type ModuleGraph struct {
	modules []Module
	out     [][]Edge
}

// NewModuleGraph returns an empty module graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{}
}

// AddModule appends a new module and returns its handle. Size must be
// non-negative; a negative size is a graph-construction bug.
func (g *ModuleGraph) AddModule(name string, size int) (ModuleID, error) {
	if size < 0 {
		return 0, fmt.Errorf("graph: module %q has negative size %d", name, size)
	}
	id := ModuleID(len(g.modules))
	g.modules = append(g.modules, Module{ID: id, Name: name, Size: size})
	g.out = append(g.out, nil)
	return id, nil
}

// AddDependency records a directed edge from -> to with the given async
// flag. Edges are appended in call order; a graph may contain cycles and
// parallel edges, both handled by DFS traversal semantics.
func (g *ModuleGraph) AddDependency(from, to ModuleID, async bool) error {
	if !g.valid(from) {
		return fmt.Errorf("%w: dependency source %d", ErrDanglingHandle, from)
	}
	if !g.valid(to) {
		return fmt.Errorf("%w: dependency target %d", ErrDanglingHandle, to)
	}
	g.out[from] = append(g.out[from], Edge{To: to, Dependency: Dependency{Async: async}})
	return nil
}

func (g *ModuleGraph) valid(id ModuleID) bool {
	return id >= 0 && int(id) < len(g.modules)
}

// Module returns the module for id, or false if id is not a handle in g.
func (g *ModuleGraph) Module(id ModuleID) (Module, bool) {
	if !g.valid(id) {
		return Module{}, false
	}
	return g.modules[id], true
}

// Modules returns every module handle in stable insertion order.
func (g *ModuleGraph) Modules() []ModuleID {
	ids := make([]ModuleID, len(g.modules))
	for i := range g.modules {
		ids[i] = ModuleID(i)
	}
	return ids
}

// Successors returns the outgoing edges of id in the order they were
// inserted.
func (g *ModuleGraph) Successors(id ModuleID) []Edge {
	if !g.valid(id) {
		return nil
	}
	return g.out[id]
}

// NodeCount returns the number of modules in the graph.
func (g *ModuleGraph) NodeCount() int {
	return len(g.modules)
}
