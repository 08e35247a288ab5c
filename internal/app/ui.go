// internal/app/ui.go
package app

import (
	"unicode/utf8"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/types"
	"github.com/gdamore/tcell/v2"
)

// handleKeyEvent maps keys to commands or cursor motion. Returns true if
// the screen needs a redraw.
func (a *App) handleKeyEvent(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.requestQuit()
		return false

	case tcell.KeyCtrlS:
		a.dispatch(cmdSave, nil)
		return true

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		a.dispatch(cmdDeleteBackward, nil)
		return true

	case tcell.KeyEnter:
		a.dispatch(cmdInsertText, []string{"\n"})
		return true

	case tcell.KeyTab:
		a.dispatch(cmdInsertText, []string{"\t"})
		return true

	case tcell.KeyLeft:
		a.setCursor(a.prevBoundary(a.cursor))
		return true
	case tcell.KeyRight:
		a.setCursor(a.nextBoundary(a.cursor))
		return true
	case tcell.KeyUp:
		a.moveCursorLine(-1)
		return true
	case tcell.KeyDown:
		a.moveCursorLine(1)
		return true
	case tcell.KeyHome:
		a.moveCursorLineEdge(false)
		return true
	case tcell.KeyEnd:
		a.moveCursorLineEdge(true)
		return true

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'u':
			a.dispatch(cmdUndo, nil)
		case 'r':
			a.dispatch(cmdRedo, nil)
		case 'U':
			a.dispatch(cmdUndoAll, nil)
		case 'R':
			a.dispatch(cmdRedoAll, nil)
		case 't':
			a.dispatch(cmdTrimTrailing, nil)
		case 'q':
			a.requestQuit()
			return false
		default:
			a.dispatch(cmdInsertText, []string{string(ev.Rune())})
		}
		return true
	}
	return false
}

// dispatch routes through the command dispatcher so every edit runs as a
// proper operation cycle.
func (a *App) dispatch(id types.CommandID, args []string) {
	if err := a.dispatcher.Dispatch(id, args); err != nil {
		logger.Errorf("App: command %q failed: %v", id, err)
		a.statusBar.SetTemporaryMessage("Error: %v", err)
	}
}

// --- Cursor helpers ---

func (a *App) setCursor(off int) {
	if off < 0 {
		off = 0
	}
	if max := a.buf.Len(); off > max {
		off = max
	}
	if off != a.cursor {
		a.cursor = off
		a.eventManager.Dispatch(event.TypeCursorMoved, event.CursorMovedData{Offset: off})
	}
}

func (a *App) clampCursor() {
	a.setCursor(a.cursor)
}

// prevBoundary returns the byte offset of the previous rune boundary.
func (a *App) prevBoundary(off int) int {
	if off <= 0 {
		return 0
	}
	_, size := utf8.DecodeLastRune(a.buf.Bytes()[:off])
	if size <= 0 {
		return off - 1
	}
	return off - size
}

// nextBoundary returns the byte offset of the next rune boundary.
func (a *App) nextBoundary(off int) int {
	content := a.buf.Bytes()
	if off >= len(content) {
		return len(content)
	}
	_, size := utf8.DecodeRune(content[off:])
	if size <= 0 {
		return off + 1
	}
	return off + size
}

// moveCursorLine moves the cursor up or down, keeping the byte column
// where the new line allows.
func (a *App) moveCursorLine(delta int) {
	pos := a.buf.PosOf(a.cursor)
	target := pos.Line + delta
	if target < 0 || target >= a.buf.LineCount() {
		return
	}
	line, err := a.buf.Line(target)
	if err != nil {
		return
	}
	start, err := a.buf.LineStart(target)
	if err != nil {
		return
	}
	col := pos.Col
	if col > len(line) {
		col = len(line)
	}
	a.setCursor(start + col)
}

// moveCursorLineEdge jumps to the start or end of the current line.
func (a *App) moveCursorLineEdge(toEnd bool) {
	pos := a.buf.PosOf(a.cursor)
	start, err := a.buf.LineStart(pos.Line)
	if err != nil {
		return
	}
	if !toEnd {
		a.setCursor(start)
		return
	}
	line, err := a.buf.Line(pos.Line)
	if err != nil {
		return
	}
	a.setCursor(start + len(line))
}
