package graph

import "errors"

// ErrDanglingHandle marks a module or chunk handle that does not exist in
// the graph it was looked up against. This is always a
// programmer/graph-construction bug, never a runtime condition a caller can
// recover from by retrying.
var ErrDanglingHandle = errors.New("graph: dangling handle")

// InvariantError reports a violated algorithm invariant: a corrupt graph,
// a dangling node reference, or a malformed size. It identifies the
// offending handle so a caller embedding the splitter as a library can log
// or surface a diagnostic instead of the process aborting outright.
type InvariantError struct {
	Op     string // the pass that detected the violation, e.g. "placeModules"
	Handle any    // the offending ModuleID or ChunkID
	Reason string
}

func (e *InvariantError) Error() string {
	return "graph: invariant violated in " + e.Op + ": " + e.Reason
}

func (e *InvariantError) Unwrap() error { return ErrDanglingHandle }
