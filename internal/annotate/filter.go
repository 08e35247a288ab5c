// internal/annotate/filter.go
package annotate

import (
	"github.com/bethropolis/undomark/internal/types"
)

// Filter decides whether a raw mutation notification should produce an
// annotation. Filtering is two-tier: command identity first (an explicit
// allow-list, not inferred), then budget state and a kind-specific size
// predicate. Only recognized undo-traversal commands ever produce visible
// annotations; everything else in the same notification stream is
// incidental and silently ignored.
type Filter struct {
	allowed map[types.CommandID]struct{}
	minSize int
}

// NewFilter builds a filter from the allow-list of undo-like commands.
// minSize is the legacy minimum edit size; 0 disables it (the budget
// ceiling is the primary defense).
func NewFilter(commands []types.CommandID, minSize int) *Filter {
	allowed := make(map[types.CommandID]struct{}, len(commands))
	for _, id := range commands {
		if id != types.None {
			allowed[id] = struct{}{}
		}
	}
	if minSize < 0 {
		minSize = 0
	}
	return &Filter{allowed: allowed, minSize: minSize}
}

// Allowed reports whether the command is in the undo-like allow-list.
func (f *Filter) Allowed(id types.CommandID) bool {
	_, ok := f.allowed[id]
	return ok
}

// Eligible applies the full filter to one notification. overLimit is the
// budget state *after* the notification has been charged (accumulate,
// then check). Edits failing only the size predicate have already been
// charged by the caller, so suppressing them here cannot be used to
// sneak under the cap.
func (f *Filter) Eligible(m Mutation, overLimit bool) bool {
	if !f.Allowed(m.Command) {
		return false
	}
	if overLimit {
		return false
	}
	if m.Kind == KindInsert && m.Removed != 0 {
		// Replacement: the deletion captured in the pre-mutation
		// phase is the dominant cue, the insert path stays quiet.
		return false
	}
	if m.Span.IsEmpty() {
		return false
	}
	if f.minSize > 0 && m.Span.Len() < f.minSize {
		return false
	}
	return true
}
