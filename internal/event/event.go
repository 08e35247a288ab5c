// internal/event/event.go
package event

import (
	"github.com/bethropolis/undomark/internal/types"
)

// Type identifies the kind of event.
type Type int

// Define specific event types.
const (
	TypeUnknown Type = iota

	// Mutation notifications, fired by whatever component physically
	// edits the buffer, in the order the edits occur.
	TypeBeforeChange // Fired *before* a range is removed/replaced
	TypeAfterChange  // Fired *after* text is inserted/replaced

	// Command lifecycle
	TypeCycleEnd // Fired once per completed command dispatch

	// Annotation engine output
	TypeAnnotationsChanged // Fired when annotations are appended or cleared

	// Buffer lifecycle
	TypeBufferLoaded
	TypeBufferSaved

	// Host UI
	TypeCursorMoved
	TypeAppQuit
)

// Event is the structure passed through the event bus.
type Event struct {
	Type Type        // The kind of event
	Data interface{} // Payload carrying event-specific data
}

// --- Specific Event Data Structures ---

// BeforeChangeData describes a range that is about to be removed or
// replaced. For a pure insertion the span is empty (Beg == End).
type BeforeChangeData struct {
	Span types.Span
}

// AfterChangeData describes text that was just inserted or replaced.
// Removed is the byte length of text removed in the same physical
// edit; 0 means a pure insertion.
type AfterChangeData struct {
	Span    types.Span
	Removed int
}

// CycleEndData identifies the command whose operation cycle just completed.
type CycleEndData struct {
	Command types.CommandID
}

// AnnotationsChangedData carries the number of live annotations after
// the change (0 after a bulk clear).
type AnnotationsChangedData struct {
	Count int
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// CursorMovedData contains the new cursor byte offset.
type CursorMovedData struct {
	Offset int
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}
