package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"

	"splitgraph/internal/graph"
)

func buildSampleGraphs(t *testing.T) (*graph.ModuleGraph, *graph.ChunkGraph) {
	t.Helper()
	mg := graph.NewModuleGraph()
	a, err := mg.AddModule("entry", 100)
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	b, err := mg.AddModule("dead", 50)
	if err != nil {
		t.Fatalf("AddModule: %v", err)
	}
	_ = b

	cg := graph.NewChunkGraph()
	c := &graph.Chunk{}
	c.AddModule(a, 100)
	cg.AddChunk(c)

	return mg, cg
}

func TestBuild_ReportsDeadModules(t *testing.T) {
	mg, cg := buildSampleGraphs(t)
	s := Build(cg, mg, uuid.Nil)

	if len(s.DeadModules) != 1 || s.DeadModules[0] != "dead" {
		t.Fatalf("DeadModules = %v, want [dead]", s.DeadModules)
	}
	if s.TotalSize != 100 {
		t.Errorf("TotalSize = %d, want 100", s.TotalSize)
	}
}

func TestWriteJSON_RoundTrips(t *testing.T) {
	mg, cg := buildSampleGraphs(t)
	s := Build(cg, mg, uuid.Nil)

	var buf bytes.Buffer
	if err := WriteJSON(&buf, s); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded Summary
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.RunID != s.RunID {
		t.Errorf("RunID = %q, want %q", decoded.RunID, s.RunID)
	}
}

func TestWriteText_MentionsDeadModules(t *testing.T) {
	mg, cg := buildSampleGraphs(t)
	s := Build(cg, mg, uuid.Nil)

	var buf bytes.Buffer
	if err := WriteText(&buf, s); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if !strings.Contains(buf.String(), "dead") {
		t.Errorf("text output missing dead module mention:\n%s", buf.String())
	}
}
