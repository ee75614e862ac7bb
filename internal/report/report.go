// Package report formats a computed chunk graph for humans and machines,
// with dual human-readable and --json output modes.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"splitgraph/internal/graph"
)

// ChunkSummary is the reporting view of one chunk: member names instead of
// handles, and its total size in bytes.
type ChunkSummary struct {
	ID           int      `json:"id"`
	Members      []string `json:"members"`
	Size         int      `json:"size_bytes"`
	IsEntry      bool     `json:"is_entry"`
	SourceChunks []int    `json:"source_chunks,omitempty"`
	LoadedBy     []int    `json:"loaded_by,omitempty"`
}

// Summary is the full report for one build: every chunk produced, plus
// the modules that appear in no chunk (those no entry reaches, and those
// whose chunk the parallel-limit pass removed as an orphan), made
// observable here instead.
type Summary struct {
	RunID       string         `json:"run_id"`
	ModuleCount int            `json:"module_count"`
	Chunks      []ChunkSummary `json:"chunks"`
	DeadModules []string       `json:"dead_modules,omitempty"`
	TotalSize   int            `json:"total_size_bytes"`
}

// Build assembles a Summary from a finished split, tagging it with the
// given run id.
func Build(cg *graph.ChunkGraph, mg *graph.ModuleGraph, runID uuid.UUID) *Summary {
	s := &Summary{
		RunID:       runID.String(),
		ModuleCount: mg.NodeCount(),
	}

	placed := make(map[graph.ModuleID]bool)
	for _, id := range cg.Chunks() {
		c, ok := cg.Chunk(id)
		if !ok {
			continue
		}
		members := make([]string, len(c.ModuleIDs))
		for i, mid := range c.ModuleIDs {
			m, _ := mg.Module(mid)
			members[i] = m.Name
			placed[mid] = true
		}
		sources := make([]int, len(c.SourceChunks))
		for i, sc := range c.SourceChunks {
			sources[i] = int(sc)
		}
		loadedBy := make([]int, 0)
		for _, from := range cg.Predecessors(id) {
			loadedBy = append(loadedBy, int(from))
		}
		sort.Ints(loadedBy)

		s.Chunks = append(s.Chunks, ChunkSummary{
			ID:           int(id),
			Members:      members,
			Size:         c.Size,
			IsEntry:      c.IsEntry(),
			SourceChunks: sources,
			LoadedBy:     loadedBy,
		})
		s.TotalSize += c.Size
	}

	for _, id := range mg.Modules() {
		if !placed[id] {
			m, _ := mg.Module(id)
			s.DeadModules = append(s.DeadModules, m.Name)
		}
	}
	sort.Strings(s.DeadModules)

	return s
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteText writes a human-readable table of s using go-humanize for byte
// sizes.
func WriteText(w io.Writer, s *Summary) error {
	fmt.Fprintf(w, "run %s: %d modules, %d chunks, %s total\n",
		s.RunID, s.ModuleCount, len(s.Chunks), humanize.Bytes(uint64(s.TotalSize)))

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "CHUNK\tKIND\tSIZE\tMEMBERS")
	for _, c := range s.Chunks {
		kind := "shared"
		if c.IsEntry {
			kind = "entry"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, kind, humanize.Bytes(uint64(c.Size)), firstFew(c.Members, 3))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(s.DeadModules) > 0 {
		fmt.Fprintf(w, "%d dead module(s): %s\n", len(s.DeadModules), firstFew(s.DeadModules, 10))
	}
	return nil
}

func firstFew(items []string, n int) string {
	if len(items) <= n {
		return join(items)
	}
	return join(items[:n]) + fmt.Sprintf(" (+%d more)", len(items)-n)
}

func join(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += ", "
		}
		out += item
	}
	return out
}
