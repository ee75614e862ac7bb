package graph

// ChunkID is the opaque stable handle identifying a chunk node of G_c.
type ChunkID int

// ChunkRoot pairs a chunk id with its chunk-group id. For entries and
// async-split targets the two are always equal today; the pair is kept
// distinct to leave room for a future design where several chunks share
// one loader group.
type ChunkRoot struct {
	ChunkID ChunkID
	GroupID ChunkID
}

// Chunk is a node of G_c: an ordered list of member modules, their
// aggregated size, and the ordered set of source chunks it was factored
// out of. An empty SourceChunks marks an entry chunk (chunk root); a
// non-empty one marks a shared chunk.
type Chunk struct {
	ID           ChunkID
	ModuleIDs    []ModuleID
	Size         int
	SourceChunks []ChunkID
}

// IsEntry reports whether c is a chunk root (no source chunks).
func (c *Chunk) IsEntry() bool {
	return len(c.SourceChunks) == 0
}

// AddModule appends m to the chunk's member list and adds its size.
func (c *Chunk) AddModule(id ModuleID, size int) {
	c.ModuleIDs = append(c.ModuleIDs, id)
	c.Size += size
}

// ChunkGraph is G_c: the output chunk graph. Edges run from a chunk-group
// root to every chunk it loads; they are a set (loading the same chunk
// twice from the same group collapses to one edge) so that the parallel
// load limit in step 5B counts distinct chunks, not placement events.
type ChunkGraph struct {
	chunks map[ChunkID]*Chunk
	order  []ChunkID
	succ   map[ChunkID][]ChunkID
	pred   map[ChunkID][]ChunkID
	next   ChunkID
}

// NewChunkGraph returns an empty chunk graph.
func NewChunkGraph() *ChunkGraph {
	return &ChunkGraph{
		chunks: make(map[ChunkID]*Chunk),
		succ:   make(map[ChunkID][]ChunkID),
		pred:   make(map[ChunkID][]ChunkID),
	}
}

// AddChunk inserts a new chunk, assigning it the next available id.
func (g *ChunkGraph) AddChunk(chunk *Chunk) ChunkID {
	id := g.next
	g.next++
	chunk.ID = id
	g.chunks[id] = chunk
	g.order = append(g.order, id)
	return id
}

// Chunk returns the chunk for id, or false if it no longer exists (e.g.
// dissolved by step 5).
func (g *ChunkGraph) Chunk(id ChunkID) (*Chunk, bool) {
	c, ok := g.chunks[id]
	return c, ok
}

// Chunks returns a snapshot of every live chunk id, in the order chunks
// were created. Callers that mutate the graph while iterating the min-size
// dissolution pass must take this snapshot first.
func (g *ChunkGraph) Chunks() []ChunkID {
	out := make([]ChunkID, 0, len(g.order))
	for _, id := range g.order {
		if _, ok := g.chunks[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// NodeCount returns the number of live chunks.
func (g *ChunkGraph) NodeCount() int {
	return len(g.chunks)
}

// AddEdge records that chunk-group from loads chunk to. Idempotent: adding
// the same edge twice has no further effect.
func (g *ChunkGraph) AddEdge(from, to ChunkID) {
	for _, existing := range g.succ[from] {
		if existing == to {
			return
		}
	}
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// RemoveEdge deletes the edge from -> to, if present.
func (g *ChunkGraph) RemoveEdge(from, to ChunkID) {
	g.succ[from] = removeID(g.succ[from], to)
	g.pred[to] = removeID(g.pred[to], from)
}

// Successors returns the chunks directly loaded by from, in the order the
// edges were added.
func (g *ChunkGraph) Successors(from ChunkID) []ChunkID {
	return append([]ChunkID(nil), g.succ[from]...)
}

// Predecessors returns the chunk-group roots that load to.
func (g *ChunkGraph) Predecessors(to ChunkID) []ChunkID {
	return append([]ChunkID(nil), g.pred[to]...)
}

// InDegree returns the number of distinct chunk groups loading id.
func (g *ChunkGraph) InDegree(id ChunkID) int {
	return len(g.pred[id])
}

// RemoveNode deletes a chunk and every edge touching it.
func (g *ChunkGraph) RemoveNode(id ChunkID) {
	for _, from := range append([]ChunkID(nil), g.pred[id]...) {
		g.succ[from] = removeID(g.succ[from], id)
	}
	for _, to := range append([]ChunkID(nil), g.succ[id]...) {
		g.pred[to] = removeID(g.pred[to], id)
	}
	delete(g.succ, id)
	delete(g.pred, id)
	delete(g.chunks, id)
}

func removeID(ids []ChunkID, target ChunkID) []ChunkID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
