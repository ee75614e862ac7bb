package splitter

import (
	"testing"

	"splitgraph/internal/config"
	"splitgraph/internal/graph"
)

// buildMainGraph constructs a reference graph: entry-a, entry-b, a, b,
// shared, asynced_a, all size 1000.
func buildMainGraph(t *testing.T, extra func(mg *graph.ModuleGraph, ids map[string]graph.ModuleID)) (*graph.ModuleGraph, map[string]graph.ModuleID) {
	t.Helper()
	mg := graph.NewModuleGraph()
	ids := make(map[string]graph.ModuleID)

	for _, name := range []string{"entry-a", "entry-b", "a", "b", "shared", "asynced_a"} {
		id, err := mg.AddModule(name, 1000)
		if err != nil {
			t.Fatalf("AddModule(%s): %v", name, err)
		}
		ids[name] = id
	}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("AddDependency: %v", err)
		}
	}
	must(mg.AddDependency(ids["entry-a"], ids["a"], false))
	must(mg.AddDependency(ids["entry-a"], ids["asynced_a"], true))
	must(mg.AddDependency(ids["entry-a"], ids["shared"], false))
	must(mg.AddDependency(ids["entry-b"], ids["b"], false))
	must(mg.AddDependency(ids["entry-b"], ids["shared"], false))

	if extra != nil {
		extra(mg, ids)
	}
	return mg, ids
}

func chunkByFirstMember(t *testing.T, cg *graph.ChunkGraph, mg *graph.ModuleGraph, name string) (graph.ChunkID, *graph.Chunk) {
	t.Helper()
	for _, id := range cg.Chunks() {
		c, _ := cg.Chunk(id)
		if len(c.ModuleIDs) == 0 {
			continue
		}
		m, _ := mg.Module(c.ModuleIDs[0])
		if m.Name == name {
			return id, c
		}
	}
	t.Fatalf("no chunk found whose first member is %q", name)
	return 0, nil
}

func moduleNames(mg *graph.ModuleGraph, ids []graph.ModuleID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		m, _ := mg.Module(id)
		names[i] = m.Name
	}
	return names
}

func TestSplit_MainScenario(t *testing.T) {
	mg, ids := buildMainGraph(t, nil)
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cg, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if cg.NodeCount() != 4 {
		t.Fatalf("expected 4 chunks, got %d", cg.NodeCount())
	}

	c1id, c1 := chunkByFirstMember(t, cg, mg, "entry-a")
	if got := moduleNames(mg, c1.ModuleIDs); len(got) != 2 || got[0] != "entry-a" || got[1] != "a" {
		t.Errorf("C1 members = %v, want [entry-a a]", got)
	}
	if c1.Size != 2000 || !c1.IsEntry() {
		t.Errorf("C1 size=%d isEntry=%v, want 2000 true", c1.Size, c1.IsEntry())
	}

	c2id, c2 := chunkByFirstMember(t, cg, mg, "entry-b")
	if got := moduleNames(mg, c2.ModuleIDs); len(got) != 2 || got[0] != "entry-b" || got[1] != "b" {
		t.Errorf("C2 members = %v, want [entry-b b]", got)
	}

	c3id, c3 := chunkByFirstMember(t, cg, mg, "asynced_a")
	if c3.Size != 1000 || !c3.IsEntry() {
		t.Errorf("C3 size=%d isEntry=%v, want 1000 true", c3.Size, c3.IsEntry())
	}

	c4id, c4 := chunkByFirstMember(t, cg, mg, "shared")
	if c4.Size != 1000 || c4.IsEntry() {
		t.Errorf("C4 size=%d isEntry=%v, want 1000 false", c4.Size, c4.IsEntry())
	}
	if len(c4.SourceChunks) != 2 {
		t.Errorf("C4 source_chunks = %v, want 2 entries", c4.SourceChunks)
	}

	c1succ := cg.Successors(c1id)
	if !containsChunkID(c1succ, c3id) || !containsChunkID(c1succ, c4id) {
		t.Errorf("C1 successors = %v, want to include C3 and C4", c1succ)
	}
	c2succ := cg.Successors(c2id)
	if !containsChunkID(c2succ, c4id) {
		t.Errorf("C2 successors = %v, want to include C4", c2succ)
	}
}

func TestSplit_VariantA_MinSizeDissolvesShared(t *testing.T) {
	mg, ids := buildMainGraph(t, nil)
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cfg := config.SplitConfig{MinSharedChunkSize: 2000, ParallelRequestLimit: config.Unbounded}
	cg, err := Split(mg, entries, cfg)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if cg.NodeCount() != 3 {
		t.Fatalf("expected 3 chunks after dissolution, got %d", cg.NodeCount())
	}

	_, c1 := chunkByFirstMember(t, cg, mg, "entry-a")
	if c1.Size != 3000 {
		t.Errorf("C1 size = %d, want 3000", c1.Size)
	}
	names := moduleNames(mg, c1.ModuleIDs)
	if len(names) != 3 || names[2] != "shared" {
		t.Errorf("C1 members = %v, want to end with shared", names)
	}

	_, c2 := chunkByFirstMember(t, cg, mg, "entry-b")
	if c2.Size != 3000 {
		t.Errorf("C2 size = %d, want 3000", c2.Size)
	}
	names = moduleNames(mg, c2.ModuleIDs)
	if len(names) != 3 || names[2] != "shared" {
		t.Errorf("C2 members = %v, want to end with shared", names)
	}

	for _, id := range cg.Chunks() {
		c, _ := cg.Chunk(id)
		for _, mid := range c.ModuleIDs {
			m, _ := mg.Module(mid)
			if m.Name == "shared" && len(c.SourceChunks) > 0 {
				t.Errorf("shared chunk still exists as a standalone shared node")
			}
		}
	}
}

func TestSplit_VariantB_SharedAsyncTargetStaysSingleChunk(t *testing.T) {
	mg, ids := buildMainGraph(t, func(mg *graph.ModuleGraph, ids map[string]graph.ModuleID) {
		if err := mg.AddDependency(ids["entry-b"], ids["asynced_a"], true); err != nil {
			t.Fatalf("AddDependency: %v", err)
		}
	})
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cg, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	c1id, _ := chunkByFirstMember(t, cg, mg, "entry-a")
	c2id, _ := chunkByFirstMember(t, cg, mg, "entry-b")
	c3id, c3 := chunkByFirstMember(t, cg, mg, "asynced_a")

	if len(c3.ModuleIDs) != 1 {
		t.Errorf("C3 members = %v, want just [asynced_a] (dominance should keep it a single chunk)", moduleNames(mg, c3.ModuleIDs))
	}
	if !c3.IsEntry() {
		t.Errorf("C3 should remain an entry chunk, got source_chunks=%v", c3.SourceChunks)
	}

	if !containsChunkID(cg.Successors(c1id), c3id) {
		t.Errorf("expected edge C1 -> C3")
	}
	if !containsChunkID(cg.Successors(c2id), c3id) {
		t.Errorf("expected edge C2 -> C3")
	}
}

func TestSplit_VariantC_ParallelLimitDissolvesSmallestSuccessor(t *testing.T) {
	mg, ids := buildMainGraph(t, nil)
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cfg := config.SplitConfig{MinSharedChunkSize: 10, ParallelRequestLimit: 1}
	cg, err := Split(mg, entries, cfg)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	c1id, _ := chunkByFirstMember(t, cg, mg, "entry-a")
	if got := len(cg.Successors(c1id)); got != 1 {
		t.Fatalf("successors(C1) = %d, want 1 after parallel-limit enforcement", got)
	}
}

func TestSplit_VariantD_UnreachableModuleLeftUnplaced(t *testing.T) {
	mg, ids := buildMainGraph(t, func(mg *graph.ModuleGraph, ids map[string]graph.ModuleID) {
		id, err := mg.AddModule("orphan", 500)
		if err != nil {
			t.Fatalf("AddModule: %v", err)
		}
		ids["orphan"] = id
	})
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cg, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	if cg.NodeCount() != 4 {
		t.Fatalf("expected 4 chunks (orphan unplaced), got %d", cg.NodeCount())
	}
	for _, id := range cg.Chunks() {
		c, _ := cg.Chunk(id)
		for _, mid := range c.ModuleIDs {
			m, _ := mg.Module(mid)
			if m.Name == "orphan" {
				t.Fatalf("orphan module should not appear in any chunk")
			}
		}
	}
}

func TestSplit_EmptyEntries(t *testing.T) {
	mg, _ := buildMainGraph(t, nil)
	cg, err := Split(mg, nil, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if cg.NodeCount() != 0 {
		t.Fatalf("expected empty chunk graph, got %d chunks", cg.NodeCount())
	}
}

func TestSplit_ChunkSizeMatchesMemberSum(t *testing.T) {
	mg, ids := buildMainGraph(t, nil)
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cg, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split: %v", err)
	}

	for _, id := range cg.Chunks() {
		c, _ := cg.Chunk(id)
		sum := 0
		for _, mid := range c.ModuleIDs {
			m, _ := mg.Module(mid)
			sum += m.Size
		}
		if sum != c.Size {
			t.Errorf("chunk %d: size=%d, sum of members=%d", id, c.Size, sum)
		}
	}
}

func TestSplit_Determinism(t *testing.T) {
	mg, ids := buildMainGraph(t, nil)
	entries := []graph.ModuleID{ids["entry-a"], ids["entry-b"]}

	cg1, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split (1): %v", err)
	}
	cg2, err := Split(mg, entries, config.DefaultSplitConfig())
	if err != nil {
		t.Fatalf("Split (2): %v", err)
	}

	if cg1.NodeCount() != cg2.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", cg1.NodeCount(), cg2.NodeCount())
	}
	for _, name := range []string{"entry-a", "entry-b", "asynced_a", "shared"} {
		_, c1 := chunkByFirstMember(t, cg1, mg, name)
		_, c2 := chunkByFirstMember(t, cg2, mg, name)
		n1, n2 := moduleNames(mg, c1.ModuleIDs), moduleNames(mg, c2.ModuleIDs)
		if len(n1) != len(n2) {
			t.Fatalf("chunk rooted at %s: member count differs across runs", name)
		}
		for i := range n1 {
			if n1[i] != n2[i] {
				t.Errorf("chunk rooted at %s: member %d differs: %s vs %s", name, i, n1[i], n2[i])
			}
		}
	}
}
