// Package command implements the host's command registry and dispatch
// loop. One Dispatch call is one operation cycle: the command ID is
// visible through CurrentCommand for the duration of the command and the
// cycle-end notification, then cleared.
package command

import (
	"fmt"
	"sync"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/types"
)

// Func defines the signature for registered commands.
type Func func(args []string) error

// Dispatcher owns the registry and the "current command" state the
// annotation engine consults on every mutation notification.
type Dispatcher struct {
	mu       sync.RWMutex
	commands map[types.CommandID]Func
	current  types.CommandID
	events   *event.Manager
}

// NewDispatcher creates a dispatcher publishing cycle ends on the bus.
func NewDispatcher(events *event.Manager) *Dispatcher {
	return &Dispatcher{
		commands: make(map[types.CommandID]Func),
		events:   events,
	}
}

// Register adds a command. Re-registering an ID is a programming error.
func (d *Dispatcher) Register(id types.CommandID, fn Func) error {
	if id == types.None || fn == nil {
		return fmt.Errorf("invalid command registration for %q", id)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.commands[id]; exists {
		return fmt.Errorf("command %q already registered", id)
	}
	d.commands[id] = fn
	return nil
}

// CurrentCommand returns the ID of the command currently executing, or
// types.None between dispatches. This is the accessor the annotation
// engine's eligibility filter keys on.
func (d *Dispatcher) CurrentCommand() types.CommandID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// Dispatch runs one command as one full operation cycle. The cycle-end
// notification fires exactly once regardless of whether the command
// mutated anything or returned an error; the current command stays set
// until the cycle-end handlers have finished.
func (d *Dispatcher) Dispatch(id types.CommandID, args []string) error {
	d.mu.RLock()
	fn, ok := d.commands[id]
	d.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown command %q", id)
	}

	d.setCurrent(id)
	defer func() {
		if d.events != nil {
			d.events.Dispatch(event.TypeCycleEnd, event.CycleEndData{Command: id})
		}
		d.setCurrent(types.None)
	}()

	logger.DebugTagf("command", "Dispatching %q", id)
	if err := fn(args); err != nil {
		return fmt.Errorf("command %q: %w", id, err)
	}
	return nil
}

func (d *Dispatcher) setCurrent(id types.CommandID) {
	d.mu.Lock()
	d.current = id
	d.mu.Unlock()
}
