// internal/app/events.go
package app

import (
	"github.com/bethropolis/undomark/internal/event"
)

// registerSubscriptions wires the annotation engine and the status bar
// into the host bus. Mutation notifications reach the session in the
// order the edits physically occur because dispatch is synchronous.
func (a *App) registerSubscriptions() {
	a.eventManager.Subscribe(event.TypeBeforeChange, a.handleBeforeChange)
	a.eventManager.Subscribe(event.TypeAfterChange, a.handleAfterChange)
	a.eventManager.Subscribe(event.TypeCycleEnd, a.handleCycleEnd)
	a.eventManager.Subscribe(event.TypeAnnotationsChanged, a.handleAnnotationsChanged)
	a.eventManager.Subscribe(event.TypeBufferSaved, a.handleBufferSaved)
}

func (a *App) handleBeforeChange(e event.Event) bool {
	if data, ok := e.Data.(event.BeforeChangeData); ok {
		a.session.BeforeChange(data.Span.Beg, data.Span.End)
	}
	return false
}

func (a *App) handleAfterChange(e event.Event) bool {
	if data, ok := e.Data.(event.AfterChangeData); ok {
		a.session.AfterChange(data.Span.Beg, data.Span.End, data.Removed)
	}
	return false
}

// handleCycleEnd runs on the event loop goroutine at the end of every
// command dispatch. The redraw before CycleEnd puts the markers on
// screen; CycleEnd then blocks for the hold (the drawing loop keeps
// running on its own goroutine), clears, and the second redraw retracts
// them.
func (a *App) handleCycleEnd(e event.Event) bool {
	a.requestRedraw()
	a.session.CycleEnd()
	a.requestRedraw()
	return false
}

func (a *App) handleAnnotationsChanged(e event.Event) bool {
	a.updateStatusBarContent()
	a.requestRedraw()
	return false
}

func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		a.statusBar.SetTemporaryMessage("Saved %s", data.FilePath)
	}
	return false
}
