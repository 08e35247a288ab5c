package command

import (
	"errors"
	"testing"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/types"
)

func TestDispatchSetsCurrentDuringExecution(t *testing.T) {
	events := event.NewManager()
	d := NewDispatcher(events)

	var during types.CommandID
	if err := d.Register("undo", func(args []string) error {
		during = d.CurrentCommand()
		return nil
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := d.Dispatch("undo", nil); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if during != "undo" {
		t.Errorf("CurrentCommand during execution = %q, want undo", during)
	}
	if d.CurrentCommand() != types.None {
		t.Errorf("CurrentCommand after dispatch = %q, want none", d.CurrentCommand())
	}
}

func TestCurrentCommandVisibleAtCycleEnd(t *testing.T) {
	events := event.NewManager()
	d := NewDispatcher(events)

	var atCycleEnd types.CommandID
	events.Subscribe(event.TypeCycleEnd, func(e event.Event) bool {
		atCycleEnd = d.CurrentCommand()
		return false
	})

	if err := d.Register("redo", func(args []string) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch("redo", nil); err != nil {
		t.Fatal(err)
	}
	if atCycleEnd != "redo" {
		t.Errorf("CurrentCommand at cycle end = %q, want redo", atCycleEnd)
	}
}

func TestCycleEndFiresOncePerDispatch(t *testing.T) {
	events := event.NewManager()
	d := NewDispatcher(events)

	var cycleEnds []types.CommandID
	events.Subscribe(event.TypeCycleEnd, func(e event.Event) bool {
		cycleEnds = append(cycleEnds, e.Data.(event.CycleEndData).Command)
		return false
	})

	boom := errors.New("boom")
	if err := d.Register("failing", func(args []string) error { return boom }); err != nil {
		t.Fatal(err)
	}
	if err := d.Register("quiet", func(args []string) error { return nil }); err != nil {
		t.Fatal(err)
	}

	// The cycle ends once per completed dispatch, even when the command
	// errors or mutates nothing.
	if err := d.Dispatch("failing", nil); !errors.Is(err, boom) {
		t.Errorf("Dispatch error = %v, want wrapped boom", err)
	}
	if err := d.Dispatch("quiet", nil); err != nil {
		t.Fatal(err)
	}

	want := []types.CommandID{"failing", "quiet"}
	if len(cycleEnds) != len(want) {
		t.Fatalf("got %d cycle ends, want %d", len(cycleEnds), len(want))
	}
	for i := range want {
		if cycleEnds[i] != want[i] {
			t.Errorf("cycle end %d = %q, want %q", i, cycleEnds[i], want[i])
		}
	}
}

func TestRegisterRejectsDuplicatesAndInvalid(t *testing.T) {
	d := NewDispatcher(event.NewManager())

	if err := d.Register("undo", func(args []string) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if err := d.Register("undo", func(args []string) error { return nil }); err == nil {
		t.Error("duplicate registration should fail")
	}
	if err := d.Register(types.None, func(args []string) error { return nil }); err == nil {
		t.Error("empty ID registration should fail")
	}
	if err := d.Register("nilfn", nil); err == nil {
		t.Error("nil func registration should fail")
	}
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := NewDispatcher(event.NewManager())
	if err := d.Dispatch("missing", nil); err == nil {
		t.Error("dispatching an unregistered command should fail")
	}
}
