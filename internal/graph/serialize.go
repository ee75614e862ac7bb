package graph

import "encoding/json"

// chunkGraphDTO is the on-disk/over-the-wire representation of a
// ChunkGraph: its chunks plus the chunk-group edges, since ChunkGraph's
// internal maps are not directly marshalable.
type chunkGraphDTO struct {
	Chunks []Chunk    `json:"chunks"`
	Edges  [][2]ChunkID `json:"edges"` // [from, to]
	Next   ChunkID    `json:"next"`
}

// MarshalJSON serializes g as its chunk list (in creation order) plus its
// edge set, used by internal/cache to persist computed chunk graphs.
func (g *ChunkGraph) MarshalJSON() ([]byte, error) {
	dto := chunkGraphDTO{Next: g.next}
	for _, id := range g.order {
		c, ok := g.chunks[id]
		if !ok {
			continue
		}
		dto.Chunks = append(dto.Chunks, *c)
	}
	for from, tos := range g.succ {
		for _, to := range tos {
			dto.Edges = append(dto.Edges, [2]ChunkID{from, to})
		}
	}
	return json.Marshal(dto)
}

// UnmarshalJSON reconstructs a ChunkGraph previously serialized by
// MarshalJSON.
func (g *ChunkGraph) UnmarshalJSON(data []byte) error {
	var dto chunkGraphDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return err
	}

	g.chunks = make(map[ChunkID]*Chunk, len(dto.Chunks))
	g.succ = make(map[ChunkID][]ChunkID)
	g.pred = make(map[ChunkID][]ChunkID)
	g.order = nil
	g.next = dto.Next

	for i := range dto.Chunks {
		c := dto.Chunks[i]
		g.chunks[c.ID] = &c
		g.order = append(g.order, c.ID)
	}
	for _, edge := range dto.Edges {
		g.AddEdge(edge[0], edge[1])
	}
	return nil
}
