// internal/app/commands.go
package app

import (
	"fmt"

	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/types"
)

// Command IDs the host registers. The undo-like ones are in the default
// annotation allow-list; the rest demonstrate that ordinary edits never
// produce markers.
const (
	cmdUndo           types.CommandID = "undo"
	cmdRedo           types.CommandID = "redo"
	cmdUndoAll        types.CommandID = "undo-all"
	cmdRedoAll        types.CommandID = "redo-all"
	cmdInsertText     types.CommandID = "insert-text"
	cmdDeleteBackward types.CommandID = "delete-backward"
	cmdTrimTrailing   types.CommandID = "trim-trailing"
	cmdSave           types.CommandID = "save"
)

// registerCommands wires every built-in command into the dispatcher.
func (a *App) registerCommands() {
	register := func(id types.CommandID, fn func(args []string) error) {
		if err := a.dispatcher.Register(id, fn); err != nil {
			logger.Errorf("App: failed to register command %q: %v", id, err)
		}
	}

	register(cmdUndo, a.commandUndo)
	register(cmdRedo, a.commandRedo)
	register(cmdUndoAll, a.commandUndoAll)
	register(cmdRedoAll, a.commandRedoAll)
	register(cmdInsertText, a.commandInsertText)
	register(cmdDeleteBackward, a.commandDeleteBackward)
	register(cmdTrimTrailing, a.commandTrimTrailing)
	register(cmdSave, a.commandSave)
}

func (a *App) commandUndo(args []string) error {
	done, err := a.history.Undo()
	if err != nil {
		return err
	}
	if !done {
		a.statusBar.SetTemporaryMessage("Nothing to undo")
	}
	a.clampCursor()
	return nil
}

func (a *App) commandRedo(args []string) error {
	done, err := a.history.Redo()
	if err != nil {
		return err
	}
	if !done {
		a.statusBar.SetTemporaryMessage("Nothing to redo")
	}
	a.clampCursor()
	return nil
}

// commandUndoAll rewinds the whole history stack in one operation cycle;
// a long stack walks the annotation budget toward its limit.
func (a *App) commandUndoAll(args []string) error {
	steps := 0
	for {
		done, err := a.history.Undo()
		if err != nil {
			return err
		}
		if !done {
			break
		}
		steps++
	}
	a.clampCursor()
	a.statusBar.SetTemporaryMessage("Undid %d change(s)", steps)
	return nil
}

func (a *App) commandRedoAll(args []string) error {
	steps := 0
	for {
		done, err := a.history.Redo()
		if err != nil {
			return err
		}
		if !done {
			break
		}
		steps++
	}
	a.clampCursor()
	a.statusBar.SetTemporaryMessage("Redid %d change(s)", steps)
	return nil
}

func (a *App) commandInsertText(args []string) error {
	if len(args) == 0 || args[0] == "" {
		return nil
	}
	text := []byte(args[0])
	if err := a.history.Insert(a.cursor, text); err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	a.setCursor(a.cursor + len(text))
	return nil
}

func (a *App) commandDeleteBackward(args []string) error {
	if a.cursor <= 0 {
		return nil
	}
	beg := a.prevBoundary(a.cursor)
	if err := a.history.Delete(beg, a.cursor); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	a.setCursor(beg)
	return nil
}

// commandTrimTrailing removes trailing whitespace from every line. It is
// deliberately not in the annotation allow-list: a bulk edit command that
// should run marker-free however many ranges it touches.
func (a *App) commandTrimTrailing(args []string) error {
	trimmed := 0
	// Walk backwards so earlier offsets stay valid as we delete.
	for lineIdx := a.buf.LineCount() - 1; lineIdx >= 0; lineIdx-- {
		line, err := a.buf.Line(lineIdx)
		if err != nil {
			return err
		}
		end := len(line)
		for end > 0 && isTrailingSpace(line[end-1]) {
			end--
		}
		if end == len(line) {
			continue
		}
		start, err := a.buf.LineStart(lineIdx)
		if err != nil {
			return err
		}
		if err := a.history.Delete(start+end, start+len(line)); err != nil {
			return err
		}
		trimmed++
	}
	a.clampCursor()
	a.statusBar.SetTemporaryMessage("Trimmed %d line(s)", trimmed)
	return nil
}

func (a *App) commandSave(args []string) error {
	if err := a.buf.Save(a.filePath); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	a.eventManager.Dispatch(event.TypeBufferSaved, event.BufferSavedData{FilePath: a.filePath})
	return nil
}

func isTrailingSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}
