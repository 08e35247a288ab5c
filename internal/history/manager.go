// internal/history/manager.go
package history

import (
	"fmt"
	"sync"

	"github.com/bethropolis/undomark/internal/buffer"
	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/types"
)

const DefaultMaxHistory = 100

// Manager owns the undo/redo stack and is the single path through which
// the buffer is mutated. Each physical edit fires a BeforeChange
// notification prior to removing/replacing and an AfterChange
// notification after inserting/replacing; for a pure insertion the
// BeforeChange span is empty.
type Manager struct {
	buf    buffer.Buffer
	events *event.Manager

	changes      []Change
	currentIndex int // Index of the *next* change to potentially Redo
	maxHistory   int
	mutex        sync.Mutex
}

// NewManager creates a history manager bound to one buffer.
func NewManager(buf buffer.Buffer, events *event.Manager, maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		buf:        buf,
		events:     events,
		changes:    make([]Change, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// Insert applies a forward insertion and records it for undo.
func (m *Manager) Insert(off int, text []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := m.applyInsert(off, text); err != nil {
		return err
	}
	m.record(Change{
		Type: InsertAction,
		Span: types.Span{Beg: off, End: off + len(text)},
		Text: append([]byte(nil), text...),
	})
	return nil
}

// Delete applies a forward deletion and records it for undo.
func (m *Manager) Delete(beg, end int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed, err := m.applyDelete(beg, end)
	if err != nil {
		return err
	}
	m.record(Change{
		Type: DeleteAction,
		Span: types.Span{Beg: beg, End: end},
		Text: removed,
	})
	return nil
}

// Undo reverts the last recorded change.
func (m *Manager) Undo() (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex <= 0 {
		logger.Debugf("History: Nothing to undo.")
		return false, nil
	}

	m.currentIndex--
	change := m.changes[m.currentIndex]
	logger.Debugf("History: Undoing change %d (%v)", m.currentIndex, change.Type)

	var err error
	switch change.Type {
	case InsertAction:
		// Undo an insert by deleting the inserted range.
		_, err = m.applyDelete(change.Span.Beg, change.Span.End)
	case DeleteAction:
		// Undo a delete by inserting the removed text back.
		err = m.applyInsert(change.Span.Beg, change.Text)
	}
	if err != nil {
		m.currentIndex++ // Revert index change on error
		return false, fmt.Errorf("undo failed: %w", err)
	}
	return true, nil
}

// Redo reapplies the last undone change.
func (m *Manager) Redo() (bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex >= len(m.changes) {
		logger.Debugf("History: Nothing to redo.")
		return false, nil
	}

	change := m.changes[m.currentIndex]
	logger.Debugf("History: Redoing change %d (%v)", m.currentIndex, change.Type)

	var err error
	switch change.Type {
	case InsertAction:
		err = m.applyInsert(change.Span.Beg, change.Text)
	case DeleteAction:
		_, err = m.applyDelete(change.Span.Beg, change.Span.End)
	}
	if err != nil {
		return false, fmt.Errorf("redo failed: %w", err)
	}

	m.currentIndex++
	return true, nil
}

// Clear resets the history stack. Call this on file load.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.changes = m.changes[:0]
	m.currentIndex = 0
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex < len(m.changes)
}

// record appends a change, truncating any redo history.
func (m *Manager) record(c Change) {
	if m.currentIndex < len(m.changes) {
		m.changes = m.changes[:m.currentIndex]
	}
	m.changes = append(m.changes, c)
	if len(m.changes) > m.maxHistory {
		m.changes = m.changes[len(m.changes)-m.maxHistory:]
	}
	m.currentIndex = len(m.changes)
}

// applyInsert performs the physical insertion, bracketed by the mutation
// notifications. The pre-mutation span is empty: nothing is removed.
func (m *Manager) applyInsert(off int, text []byte) error {
	m.dispatch(event.TypeBeforeChange, event.BeforeChangeData{Span: types.Span{Beg: off, End: off}})
	if err := m.buf.Insert(off, text); err != nil {
		return err
	}
	m.dispatch(event.TypeAfterChange, event.AfterChangeData{
		Span:    types.Span{Beg: off, End: off + len(text)},
		Removed: 0,
	})
	return nil
}

// applyDelete performs the physical removal. BeforeChange fires while the
// content still exists so observers can capture it.
func (m *Manager) applyDelete(beg, end int) ([]byte, error) {
	m.dispatch(event.TypeBeforeChange, event.BeforeChangeData{Span: types.Span{Beg: beg, End: end}})
	removed, err := m.buf.Delete(beg, end)
	if err != nil {
		return nil, err
	}
	m.dispatch(event.TypeAfterChange, event.AfterChangeData{
		Span:    types.Span{Beg: beg, End: beg},
		Removed: len(removed),
	})
	return removed, nil
}

func (m *Manager) dispatch(t event.Type, data interface{}) {
	if m.events != nil {
		m.events.Dispatch(t, data)
	}
}
