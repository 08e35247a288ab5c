package annotate

import (
	"fmt"
	"testing"
	"time"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/types"
)

// stubReader serves a fixed byte slice as the buffer snapshot.
type stubReader struct {
	content []byte
}

func (r *stubReader) ReadRange(beg, end int) ([]byte, error) {
	if beg < 0 || end > len(r.content) || beg > end {
		return nil, fmt.Errorf("range [%d,%d) out of bounds (len %d)", beg, end, len(r.content))
	}
	out := make([]byte, end-beg)
	copy(out, r.content[beg:end])
	return out, nil
}

// stubSource reports a fixed current command.
type stubSource struct {
	id types.CommandID
}

func (s *stubSource) CurrentCommand() types.CommandID { return s.id }

func newTestSession(content string, cmd types.CommandID, cfg Config) (*Session, *stubReader) {
	reader := &stubReader{content: []byte(content)}
	if len(cfg.Commands) == 0 {
		cfg.Commands = []types.CommandID{"undo", "redo"}
	}
	return NewSession(reader, &stubSource{id: cmd}, cfg), reader
}

func TestDeleteCapturesPreRemovalContent(t *testing.T) {
	s, _ := newTestSession("xxxxxxxxxxhelloyy", "undo", Config{Limit: 100})

	s.BeforeChange(10, 15)

	anns := s.Registry().Snapshot()
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	a := anns[0]
	if a.Kind != KindDelete {
		t.Errorf("Kind = %v, want delete", a.Kind)
	}
	if string(a.Text) != "hello" {
		t.Errorf("captured text = %q, want %q", a.Text, "hello")
	}
	if a.Span.Beg != 10 || a.Span.End != 10 {
		t.Errorf("anchor = %+v, want zero-width at 10", a.Span)
	}

	// A later notification with unrelated ranges must not disturb the capture.
	s.AfterChange(0, 2, 0)
	anns = s.Registry().Snapshot()
	if string(anns[0].Text) != "hello" {
		t.Errorf("captured text changed to %q", anns[0].Text)
	}
}

func TestReplaceRoundTrip(t *testing.T) {
	s, reader := newTestSession("abcXYZdef", "undo", Config{Limit: 100})

	// Pre-mutation: capture "XYZ" before the host removes it.
	s.BeforeChange(3, 6)
	if s.Registry().Len() != 1 {
		t.Fatalf("registry len = %d after delete capture, want 1", s.Registry().Len())
	}
	if got := string(s.Registry().Snapshot()[0].Text); got != "XYZ" {
		t.Errorf("captured %q, want XYZ", got)
	}

	// The host performs the removal.
	reader.content = []byte("abcdef")

	// Post-mutation with removed=3: a replacement signal, not an insertion.
	s.AfterChange(3, 3, 3)
	if s.Registry().Len() != 1 {
		t.Errorf("replacement signal must not add an insert annotation, registry len = %d", s.Registry().Len())
	}

	s.CycleEnd()
	if !s.Registry().IsEmpty() {
		t.Error("registry should be empty after cycle end")
	}
	if s.Budget().Touched() != 0 {
		t.Errorf("budget = %d after cycle end, want 0", s.Budget().Touched())
	}
}

func TestInsertAnnotation(t *testing.T) {
	s, _ := newTestSession("01234new text-----", "undo", Config{Limit: 100})

	s.AfterChange(5, 13, 0)

	anns := s.Registry().Snapshot()
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if anns[0].Kind != KindInsert {
		t.Errorf("Kind = %v, want insert", anns[0].Kind)
	}
	if anns[0].Span != (types.Span{Beg: 5, End: 13}) {
		t.Errorf("Span = %+v, want [5,13)", anns[0].Span)
	}

	s.CycleEnd()
	if !s.Registry().IsEmpty() {
		t.Error("registry should be empty after cycle end")
	}
}

func TestBudgetSuppressesAfterCeiling(t *testing.T) {
	s, _ := newTestSession("aaaaaabbbbbbcccccc", "undo", Config{Limit: 10})

	// First deletion: charged to 6, still under the ceiling.
	s.BeforeChange(0, 6)
	if s.Registry().Len() != 1 {
		t.Fatalf("first deletion should annotate, registry len = %d", s.Registry().Len())
	}

	// Second deletion charges to 12 before its own check, so 12 >= 10
	// suppresses it for the remainder of the cycle.
	s.BeforeChange(6, 12)
	if s.Registry().Len() != 1 {
		t.Errorf("second deletion should be suppressed, registry len = %d", s.Registry().Len())
	}
	if got := s.Budget().Touched(); got != 12 {
		t.Errorf("budget = %d, want 12", got)
	}
}

func TestDisallowedCommandStillCharges(t *testing.T) {
	s, _ := newTestSession("abcdefgh", "self-insert", Config{Limit: 100})

	s.BeforeChange(0, 5)
	s.AfterChange(0, 3, 0)

	if s.Registry().Len() != 0 {
		t.Errorf("non-undo command produced %d annotations", s.Registry().Len())
	}
	if got := s.Budget().Touched(); got != 8 {
		t.Errorf("budget = %d, want 8", got)
	}
}

func TestCycleEndResetIsIdempotent(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100})

	// Cycle with no mutations at all.
	s.CycleEnd()
	if !s.Registry().IsEmpty() || s.Budget().Touched() != 0 {
		t.Error("empty cycle should still leave registry empty and budget 0")
	}

	// Cycle with an ineligible mutation only.
	s.BeforeChange(0, 0)
	s.CycleEnd()
	if !s.Registry().IsEmpty() || s.Budget().Touched() != 0 {
		t.Error("cycle end must always reset registry and budget together")
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %v, want idle", s.State())
	}
}

func TestLineBoundaryAnchorShifts(t *testing.T) {
	s, _ := newTestSession("ab\ncd", "undo", Config{Limit: 100})

	// Deleting the line break itself: the anchor moves one position
	// forward so the marker attaches to the right line.
	s.BeforeChange(2, 3)

	anns := s.Registry().Snapshot()
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	if anns[0].Span.Beg != 3 {
		t.Errorf("anchor = %d, want 3", anns[0].Span.Beg)
	}
}

func TestSnapshotFailureSkipsAnnotation(t *testing.T) {
	s, _ := newTestSession("abcd", "undo", Config{Limit: 100})

	// Range extends past the buffer: the snapshot read fails, the
	// annotation attempt is abandoned, and processing continues.
	s.BeforeChange(0, 10)
	if s.Registry().Len() != 0 {
		t.Errorf("failed capture should not annotate, registry len = %d", s.Registry().Len())
	}
	// The budget still accounts for the affected range, by span length.
	if got := s.Budget().Touched(); got != 10 {
		t.Errorf("budget = %d, want 10", got)
	}

	// The session is still healthy for the next notification.
	s.BeforeChange(0, 2)
	if s.Registry().Len() != 1 {
		t.Errorf("session should keep working after a failed capture")
	}
}

func TestBudgetCountsCharactersNotBytes(t *testing.T) {
	s, _ := newTestSession("héllo", "undo", Config{Limit: 100})

	s.BeforeChange(0, 6) // 6 bytes, 5 characters
	if got := s.Budget().Touched(); got != 5 {
		t.Errorf("budget = %d, want 5 grapheme clusters", got)
	}
}

func TestHoldBlocksThenClears(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100, Hold: 30 * time.Millisecond})

	s.BeforeChange(0, 3)
	start := time.Now()
	s.CycleEnd()
	elapsed := time.Since(start)

	if elapsed < 30*time.Millisecond {
		t.Errorf("CycleEnd returned after %v, want >= 30ms hold", elapsed)
	}
	if !s.Registry().IsEmpty() || s.Budget().Touched() != 0 {
		t.Error("hold must end with registry cleared and budget reset")
	}
}

func TestHoldSkippedWhenRegistryEmpty(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100, Hold: time.Hour})

	done := make(chan struct{})
	go func() {
		s.CycleEnd()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("CycleEnd with empty registry should not hold")
	}
}

func TestCloseInterruptsHold(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100, Hold: time.Hour})
	s.BeforeChange(0, 3)
	s.Close()

	done := make(chan struct{})
	go func() {
		s.CycleEnd()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close should interrupt the hold")
	}
	if !s.Registry().IsEmpty() {
		t.Error("interrupted hold must still clear the registry")
	}
}

func TestStateTransitions(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100})

	if s.State() != StateIdle {
		t.Errorf("initial State() = %v, want idle", s.State())
	}
	s.BeforeChange(0, 3)
	if s.State() != StateAccumulating {
		t.Errorf("State() = %v after notification, want accumulating", s.State())
	}
	s.CycleEnd()
	if s.State() != StateIdle {
		t.Errorf("State() = %v after cycle end, want idle", s.State())
	}
}

func TestAnnotationsChangedEvents(t *testing.T) {
	s, _ := newTestSession("abcdef", "undo", Config{Limit: 100})

	mgr := event.NewManager()
	var counts []int
	mgr.Subscribe(event.TypeAnnotationsChanged, func(e event.Event) bool {
		counts = append(counts, e.Data.(event.AnnotationsChangedData).Count)
		return false
	})
	s.SetEventManager(mgr)

	s.BeforeChange(0, 3)
	s.AfterChange(3, 6, 0)
	s.CycleEnd()

	want := []int{1, 2, 0}
	if len(counts) != len(want) {
		t.Fatalf("got %d events (%v), want %v", len(counts), counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("event %d count = %d, want %d", i, counts[i], want[i])
		}
	}
}
