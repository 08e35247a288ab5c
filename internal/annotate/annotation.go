// Package annotate implements the transient-annotation engine: it watches
// mutation notifications delivered by the host, decides which edits made by
// undo-like commands deserve a visual marker, bounds the per-cycle
// annotation work with a character budget, and retracts all markers at the
// end of each operation cycle.
package annotate

import (
	"github.com/bethropolis/undomark/internal/types"
)

// Kind distinguishes insertion markers from deletion markers.
type Kind int

const (
	KindInsert Kind = iota
	KindDelete
)

// String returns a readable name for logging.
func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Priority orders annotations for rendering; higher draws on top.
type Priority int

// Delete must render above Insert so that a delete-then-insert within the
// same cycle (a replace) shows the deleted content as the dominant cue.
const (
	PriorityInsert Priority = 100
	PriorityDelete Priority = 150
)

// Annotation is one transient visual marker over the buffer.
//
// For KindInsert, Span is the actual inserted range, which stays live in
// the buffer. For KindDelete, Span is a zero-width point at the deletion
// site and Text holds a snapshot of the removed content, captured before
// the host performed the removal (the characters no longer exist once the
// pre-mutation phase completes).
type Annotation struct {
	Kind     Kind
	Span     types.Span
	Text     []byte
	Priority Priority
}

// Mutation is one raw mutation notification as seen by the eligibility
// filter. Kind records which notification path delivered it: KindDelete
// for pre-mutation (removal/replacement) notifications, KindInsert for
// post-mutation ones. Removed only applies to the insert path; a non-zero
// value marks the edit as a replacement rather than a pure insertion.
type Mutation struct {
	Span    types.Span
	Removed int
	Command types.CommandID
	Kind    Kind
}
