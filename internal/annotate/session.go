// internal/annotate/session.go
package annotate

import (
	"sync"
	"time"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/types"
)

// DefaultHold is how long annotations stay visible at cycle end before
// being retracted, when the host does not configure a duration.
const DefaultHold = 2 * time.Second

// SnapshotReader reads buffer content. The session uses it to capture
// soon-to-be-destroyed text in the pre-mutation phase and to measure the
// character cost of an edit.
type SnapshotReader interface {
	ReadRange(beg, end int) ([]byte, error)
}

// CommandSource identifies the host command currently executing. The
// host's dispatch loop implements this; the engine never guesses.
type CommandSource interface {
	CurrentCommand() types.CommandID
}

// State is the session's position in the operation-cycle lifecycle.
type State int

const (
	StateIdle         State = iota // no notifications pending, budget 0, registry empty
	StateAccumulating              // notifications arriving within the current cycle
	StateSettling                  // cycle ended, holding annotations visible
)

// String returns a readable name for the status line.
func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateSettling:
		return "settling"
	default:
		return "idle"
	}
}

// Config is the static configuration surface of a session.
type Config struct {
	Commands []types.CommandID // allow-list of undo-like commands
	Limit    int               // budget ceiling in characters (0 = DefaultLimit)
	MinSize  int               // legacy minimum edit size in bytes (0 = disabled)
	Hold     time.Duration     // visible retraction hold (0 = clear immediately)
}

// Session is the per-buffer cycle coordinator. All state is scoped to one
// buffer's single-threaded notification stream: the host never delivers
// overlapping notifications for one buffer, so the coordination here is
// ordering, not locking.
//
// The host calls BeforeChange prior to removing/replacing a range,
// AfterChange after inserting/replacing, and CycleEnd once per completed
// command dispatch. The session never polls.
type Session struct {
	reader SnapshotReader
	source CommandSource

	filter   *Filter
	budget   *Budget
	registry *Registry

	hold   time.Duration
	events *event.Manager

	state     State
	stop      chan struct{}
	closeOnce sync.Once
}

// NewSession creates a coordinator for one buffer.
func NewSession(reader SnapshotReader, source CommandSource, cfg Config) *Session {
	return &Session{
		reader:   reader,
		source:   source,
		filter:   NewFilter(cfg.Commands, cfg.MinSize),
		budget:   NewBudget(cfg.Limit),
		registry: NewRegistry(),
		hold:     cfg.Hold,
		stop:     make(chan struct{}),
	}
}

// SetEventManager wires the host's event bus; the session announces
// annotation appends and clears on it so the UI can redraw.
func (s *Session) SetEventManager(mgr *event.Manager) {
	s.events = mgr
}

// Registry exposes the live annotations for rendering.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Budget exposes the cycle budget for the status line.
func (s *Session) Budget() *Budget {
	return s.budget
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// BeforeChange is the pre-mutation notification: the range [beg, end) is
// about to be removed or replaced. It must run synchronously before the
// host performs the removal, because the deletion annotation captures the
// content while it still exists.
func (s *Session) BeforeChange(beg, end int) {
	span := types.Span{Beg: beg, End: end}
	text, readErr := s.reader.ReadRange(beg, end)
	s.charge(span, text, readErr)
	s.state = StateAccumulating

	m := Mutation{Span: span, Command: s.source.CurrentCommand(), Kind: KindDelete}
	if !s.filter.Eligible(m, s.budget.OverLimit()) {
		return
	}
	if readErr != nil {
		// The range went invalid under us (e.g. a reentrant edit from
		// another tool inside the same callback). Skip this one
		// annotation and keep going; never disturb the host's own
		// mutation.
		logger.DebugTagf("annotate", "Snapshot read failed for delete [%d,%d): %v", beg, end, readErr)
		return
	}

	anchor := beg
	if len(text) > 0 && text[0] == '\n' {
		// The deletion starts at a line-end boundary; anchoring
		// exactly there would visually attach the marker to the
		// wrong line.
		anchor++
	}

	s.registry.Append(Annotation{
		Kind:     KindDelete,
		Span:     types.Span{Beg: anchor, End: anchor},
		Text:     text,
		Priority: PriorityDelete,
	})
	s.notifyChanged()
}

// AfterChange is the post-mutation notification: the range [beg, end) was
// just inserted, with removed bytes of prior content removed in the same
// physical edit (0 for a pure insertion). By the time this fires the text
// already exists at its final offsets, so no capture is needed.
func (s *Session) AfterChange(beg, end, removed int) {
	span := types.Span{Beg: beg, End: end}
	text, readErr := s.reader.ReadRange(beg, end)
	s.charge(span, text, readErr)
	s.state = StateAccumulating

	m := Mutation{Span: span, Removed: removed, Command: s.source.CurrentCommand(), Kind: KindInsert}
	if !s.filter.Eligible(m, s.budget.OverLimit()) {
		return
	}

	s.registry.Append(Annotation{
		Kind:     KindInsert,
		Span:     span,
		Priority: PriorityInsert,
	})
	s.notifyChanged()
}

// CycleEnd is invoked once per completed command dispatch, whether or not
// any mutation occurred. If annotations are live it holds them visible
// for the configured duration (the host's input loop is expected to stay
// blocked so the marker is actually seen), then clears the registry and
// resets the budget together. The reset runs on every exit path.
func (s *Session) CycleEnd() {
	defer func() {
		cleared := s.registry.Len()
		s.registry.ClearAll()
		s.budget.Reset()
		s.state = StateIdle
		if cleared > 0 {
			logger.DebugTagf("annotate", "Cycle end: cleared %d annotation(s)", cleared)
			s.notifyChanged()
		}
	}()

	if s.registry.IsEmpty() || s.hold <= 0 {
		return
	}

	s.state = StateSettling
	timer := time.NewTimer(s.hold)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.stop:
		// Session torn down mid-hold; fall through to the clear.
	}
}

// Close interrupts any in-progress hold and marks the session finished.
// Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
}

// charge accounts for one notification, eligible or not. The cost is the
// edit's size in characters when the range is readable, falling back to
// its byte length when not.
func (s *Session) charge(span types.Span, text []byte, readErr error) {
	n := span.Len()
	if readErr == nil {
		n = charCount(text)
	}
	s.budget.Charge(n)
}

// notifyChanged announces the new annotation count on the host bus.
func (s *Session) notifyChanged() {
	if s.events != nil {
		s.events.Dispatch(event.TypeAnnotationsChanged, event.AnnotationsChangedData{Count: s.registry.Len()})
	}
}
