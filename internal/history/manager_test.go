package history

import (
	"testing"

	"github.com/bethropolis/undomark/internal/buffer"
	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/types"
)

// notification captures one mutation event for order assertions.
type notification struct {
	typ     event.Type
	span    types.Span
	removed int
}

func recordNotifications(mgr *event.Manager) *[]notification {
	var log []notification
	mgr.Subscribe(event.TypeBeforeChange, func(e event.Event) bool {
		d := e.Data.(event.BeforeChangeData)
		log = append(log, notification{typ: event.TypeBeforeChange, span: d.Span})
		return false
	})
	mgr.Subscribe(event.TypeAfterChange, func(e event.Event) bool {
		d := e.Data.(event.AfterChangeData)
		log = append(log, notification{typ: event.TypeAfterChange, span: d.Span, removed: d.Removed})
		return false
	})
	return &log
}

func newTestManager(content string) (*Manager, *buffer.SliceBuffer, *[]notification) {
	buf := buffer.NewSliceBufferFromString(content)
	events := event.NewManager()
	log := recordNotifications(events)
	return NewManager(buf, events, 0), buf, log
}

func TestInsertThenUndoRedo(t *testing.T) {
	m, buf, _ := newTestManager("abcdef")

	if err := m.Insert(3, []byte("XYZ")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if got := string(buf.Bytes()); got != "abcXYZdef" {
		t.Fatalf("content = %q", got)
	}

	ok, err := m.Undo()
	if !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if got := string(buf.Bytes()); got != "abcdef" {
		t.Errorf("content after undo = %q", got)
	}

	ok, err = m.Redo()
	if !ok || err != nil {
		t.Fatalf("Redo = %v, %v", ok, err)
	}
	if got := string(buf.Bytes()); got != "abcXYZdef" {
		t.Errorf("content after redo = %q", got)
	}
}

func TestDeleteThenUndo(t *testing.T) {
	m, buf, _ := newTestManager("abcXYZdef")

	if err := m.Delete(3, 6); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := string(buf.Bytes()); got != "abcdef" {
		t.Fatalf("content = %q", got)
	}

	if ok, err := m.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}
	if got := string(buf.Bytes()); got != "abcXYZdef" {
		t.Errorf("content after undo = %q", got)
	}
}

func TestUndoFiresNotificationsInPhysicalOrder(t *testing.T) {
	m, _, log := newTestManager("abcdef")

	if err := m.Insert(3, []byte("XYZ")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	*log = nil

	// Undoing an insert is physically a deletion: the pre-mutation
	// notification covers the doomed range, the post-mutation one
	// reports a collapsed span with removed > 0.
	if ok, err := m.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}

	want := []notification{
		{typ: event.TypeBeforeChange, span: types.Span{Beg: 3, End: 6}},
		{typ: event.TypeAfterChange, span: types.Span{Beg: 3, End: 3}, removed: 3},
	}
	if len(*log) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(*log), len(want))
	}
	for i := range want {
		if (*log)[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, (*log)[i], want[i])
		}
	}
}

func TestUndoDeleteFiresInsertNotifications(t *testing.T) {
	m, _, log := newTestManager("abcXYZdef")

	if err := m.Delete(3, 6); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	*log = nil

	// Undoing a delete is physically an insertion: empty pre-mutation
	// span, then the inserted range with removed == 0.
	if ok, err := m.Undo(); !ok || err != nil {
		t.Fatalf("Undo = %v, %v", ok, err)
	}

	want := []notification{
		{typ: event.TypeBeforeChange, span: types.Span{Beg: 3, End: 3}},
		{typ: event.TypeAfterChange, span: types.Span{Beg: 3, End: 6}, removed: 0},
	}
	if len(*log) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(*log), len(want))
	}
	for i := range want {
		if (*log)[i] != want[i] {
			t.Errorf("notification %d = %+v, want %+v", i, (*log)[i], want[i])
		}
	}
}

func TestRedoTruncatedByNewEdit(t *testing.T) {
	m, buf, _ := newTestManager("")

	if err := m.Insert(0, []byte("one")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if err := m.Insert(0, []byte("two")); err != nil {
		t.Fatal(err)
	}
	if m.CanRedo() {
		t.Error("new edit should truncate redo history")
	}
	if got := string(buf.Bytes()); got != "two" {
		t.Errorf("content = %q", got)
	}
}

func TestUndoRedoAtBoundaries(t *testing.T) {
	m, _, _ := newTestManager("abc")

	if ok, err := m.Undo(); ok || err != nil {
		t.Errorf("Undo on empty history = %v, %v", ok, err)
	}
	if ok, err := m.Redo(); ok || err != nil {
		t.Errorf("Redo on empty history = %v, %v", ok, err)
	}
	if m.CanUndo() || m.CanRedo() {
		t.Error("empty history should report nothing to traverse")
	}
}
