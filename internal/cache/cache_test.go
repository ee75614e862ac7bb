package cache

import (
	"context"
	"testing"
	"time"

	"splitgraph/internal/db"
	"splitgraph/internal/graph"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(db.Config{Driver: db.DriverModernc, Path: ":memory:"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleChunkGraph() *graph.ChunkGraph {
	cg := graph.NewChunkGraph()
	id := cg.AddChunk(&graph.Chunk{})
	cg.Chunk(id)
	return cg
}

func TestStore_PutThenGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cg := sampleChunkGraph()

	if err := s.Put(ctx, "gh1", "eh1", "ch1", cg, time.Unix(0, 0)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, hit, err := s.Get(ctx, "gh1", "eh1", "ch1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if got.NodeCount() != cg.NodeCount() {
		t.Errorf("NodeCount = %d, want %d", got.NodeCount(), cg.NodeCount())
	}
}

func TestStore_MissOnUnknownHash(t *testing.T) {
	s := openTestStore(t)
	_, hit, err := s.Get(context.Background(), "nope", "eh1", "ch1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected a cache miss")
	}
}

func TestStore_MissWhenEntriesHashDiffers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	cg := sampleChunkGraph()

	if err := s.Put(ctx, "gh1", "eh1", "ch1", cg, time.Unix(0, 0)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, hit, err := s.Get(ctx, "gh1", "eh-different", "ch1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if hit {
		t.Fatal("expected a miss when entries hash differs")
	}
}

func TestStore_PutOverwritesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "gh1", "eh1", "ch1", sampleChunkGraph(), time.Unix(0, 0)); err != nil {
		t.Fatalf("Put (1): %v", err)
	}

	cg2 := graph.NewChunkGraph()
	cg2.AddChunk(&graph.Chunk{})
	cg2.AddChunk(&graph.Chunk{})
	if err := s.Put(ctx, "gh1", "eh1", "ch1", cg2, time.Unix(1, 0)); err != nil {
		t.Fatalf("Put (2): %v", err)
	}

	got, hit, err := s.Get(ctx, "gh1", "eh1", "ch1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if got.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2 after overwrite", got.NodeCount())
	}
}
