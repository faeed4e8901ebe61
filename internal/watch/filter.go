package watch

import (
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/s4nju/eden/internal/journal"
)

// Event is the flattened view of one Journal entry that a Filter evaluates
// against and a Session delivers to its caller.
type Event struct {
	Path      string
	Kind      string
	Sequence  uint64
	FromHash  string
	ToHash    string
	IsUnclean bool
}

// eventsFromRange flattens a DeltaRange's accumulated sets into Events, one
// per touched path plus one per snapshot transition. Every file-change
// Event carries the range's ToSequence since a DeltaRange folds an
// arbitrary run of raw deltas into a single accumulated view with no
// per-path sequence number of its own.
func eventsFromRange(rng journal.DeltaRange) []Event {
	var events []Event
	for p := range rng.CreatedFilesInOverlay {
		events = append(events, Event{Path: string(p), Kind: "created", Sequence: uint64(rng.ToSequence)})
	}
	for p := range rng.ChangedFilesInOverlay {
		events = append(events, Event{Path: string(p), Kind: "changed", Sequence: uint64(rng.ToSequence)})
	}
	for p := range rng.RemovedFilesInOverlay {
		events = append(events, Event{Path: string(p), Kind: "removed", Sequence: uint64(rng.ToSequence)})
	}
	for _, t := range rng.SnapshotTransitions {
		events = append(events, Event{
			Kind:      "hash_update",
			Sequence:  uint64(t.SequenceID),
			FromHash:  t.FromHash.String(),
			ToHash:    t.ToHash.String(),
			IsUnclean: len(t.UncleanPaths) > 0,
		})
	}
	return events
}

// Filter compiles a CEL expression once and evaluates it per Event. An
// empty expression matches everything.
type Filter struct {
	prog    cel.Program
	enabled bool
}

// NewFilter compiles expr. An empty or whitespace-only expr always matches.
func NewFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("path", cel.StringType),
		cel.Variable("kind", cel.StringType),
		cel.Variable("sequence", cel.IntType),
		cel.Variable("from_hash", cel.StringType),
		cel.Variable("to_hash", cel.StringType),
	)
	if err != nil {
		return Filter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return Filter{}, iss.Err()
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return Filter{}, iss2.Err()
	}
	prog, err := env.Program(checked)
	if err != nil {
		return Filter{}, err
	}
	return Filter{prog: prog, enabled: true}, nil
}

// Match reports whether ev satisfies the filter. Disabled filters always match.
func (f Filter) Match(ev Event) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"path":      ev.Path,
		"kind":      ev.Kind,
		"sequence":  int64(ev.Sequence),
		"from_hash": ev.FromHash,
		"to_hash":   ev.ToHash,
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
