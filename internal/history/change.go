// Package history provides the host's undo/redo stack. Every edit it
// applies — forward or during traversal — goes out as a pre/post mutation
// notification pair on the event bus, in the order the edits physically
// occur, which is what the annotation engine listens to.
package history

import "github.com/bethropolis/undomark/internal/types"

// ActionType indicates whether text was inserted or deleted.
type ActionType int

const (
	InsertAction ActionType = iota
	DeleteAction
)

// String returns a readable name for logging.
func (a ActionType) String() string {
	if a == InsertAction {
		return "insert"
	}
	return "delete"
}

// Change represents a single, reversible text operation.
type Change struct {
	Type ActionType
	Span types.Span // Insert: the inserted range; Delete: the removed range
	Text []byte     // Text inserted or text deleted
}
