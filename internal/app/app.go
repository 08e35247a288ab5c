// internal/app/app.go
package app

import (
	"fmt"
	"sync"

	"github.com/bethropolis/undomark/internal/annotate"
	"github.com/bethropolis/undomark/internal/buffer"
	"github.com/bethropolis/undomark/internal/command"
	"github.com/bethropolis/undomark/internal/config"
	"github.com/bethropolis/undomark/internal/event"
	"github.com/bethropolis/undomark/internal/history"
	"github.com/bethropolis/undomark/internal/logger"
	"github.com/bethropolis/undomark/internal/statusbar"
	"github.com/bethropolis/undomark/internal/theme"
	"github.com/bethropolis/undomark/internal/tui"
	"github.com/bethropolis/undomark/internal/types"
	"github.com/gdamore/tcell/v2"
)

// App encapsulates the core components and main loop of the host editor.
type App struct {
	cfg          *config.Config
	tuiManager   *tui.TUI
	buf          *buffer.SliceBuffer
	history      *history.Manager
	dispatcher   *command.Dispatcher
	session      *annotate.Session
	statusBar    *statusbar.StatusBar
	eventManager *event.Manager
	activeTheme  *theme.Theme
	filePath     string

	// Cursor is a byte offset into the buffer; viewY is the first visible
	// line. Both are owned by the event loop goroutine.
	cursor int
	viewY  int

	// Channels managed by the App
	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
}

// New creates and initializes a new application instance.
func New(cfg *config.Config, filePath string) (*App, error) {
	tuiManager, err := tui.New()
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}

	buf := buffer.NewSliceBuffer()
	if err := buf.Load(filePath); err != nil {
		logger.Warnf("App: error loading file '%s': %v", filePath, err)
	}

	eventManager := event.NewManager()
	historyManager := history.NewManager(buf, eventManager, history.DefaultMaxHistory)
	dispatcher := command.NewDispatcher(eventManager)
	statusBar := statusbar.New(statusbar.DefaultConfig())

	commands := make([]types.CommandID, 0, len(cfg.Annotate.Commands))
	for _, c := range cfg.Annotate.Commands {
		commands = append(commands, types.CommandID(c))
	}
	session := annotate.NewSession(buf, dispatcher, annotate.Config{
		Commands: commands,
		Limit:    cfg.Annotate.Limit,
		MinSize:  cfg.Annotate.MinSize,
		Hold:     cfg.Annotate.Hold(),
	})
	session.SetEventManager(eventManager)

	appInstance := &App{
		cfg:           cfg,
		tuiManager:    tuiManager,
		buf:           buf,
		history:       historyManager,
		dispatcher:    dispatcher,
		session:       session,
		statusBar:     statusBar,
		eventManager:  eventManager,
		activeTheme:   theme.GetCurrentTheme(),
		filePath:      filePath,
		quit:          make(chan struct{}),
		redrawRequest: make(chan struct{}, 1),
	}

	appInstance.registerCommands()
	appInstance.registerSubscriptions()

	eventManager.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: filePath})
	return appInstance, nil
}

// Run starts the application's main event and drawing loops.
func (a *App) Run() error {
	defer a.tuiManager.Close()
	defer a.session.Close()

	go a.eventLoop()

	a.statusBar.SetTemporaryMessage("undomark - u Undo | r Redo | t Trim | Ctrl+S Save | ESC Quit")
	a.requestRedraw()

	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			if a.buf.IsModified() {
				logger.Warnf("Exited with unsaved changes.")
			}
			logger.Infof("Exiting application.")
			return nil
		case <-a.redrawRequest:
			a.drawEditor()
		}
	}
}

// eventLoop handles TUI events. Key handling runs here, including command
// dispatch; while a cycle end holds annotations visible, this goroutine
// blocks and the drawing loop keeps servicing redraw requests.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}

		needsRedraw := false

		switch eventData := ev.(type) {
		case *tcell.EventResize:
			a.tuiManager.GetScreen().Sync()
			needsRedraw = true

		case *tcell.EventKey:
			needsRedraw = a.handleKeyEvent(eventData)
		}

		if needsRedraw {
			a.requestRedraw()
		}
	}
}

// requestQuit signals the drawing loop to exit. Safe to call repeatedly.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() {
		close(a.quit)
	})
}

// requestRedraw signals the drawing loop without blocking.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default:
	}
}

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	a.scrollToCursor(height - a.cfg.Editor.StatusBarHeight)

	a.tuiManager.Clear()
	tui.DrawBuffer(a.tuiManager, a.buf, a.session.Registry().Snapshot(), a.viewY, a.cfg.Editor.TabWidth, a.activeTheme)
	a.statusBar.Draw(screen, width, height)
	tui.DrawCursor(a.tuiManager, a.buf, a.cursor, a.viewY, a.cfg.Editor.TabWidth)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.buf.FilePath(), a.buf.IsModified())
	a.statusBar.SetCursorInfo(a.buf.PosOf(a.cursor))
	a.statusBar.SetAnnotateInfo(
		a.session.State().String(),
		a.session.Registry().Len(),
		a.session.Budget().Touched(),
		a.session.Budget().Limit(),
	)
}

// scrollToCursor keeps the cursor line within the visible window.
func (a *App) scrollToCursor(viewHeight int) {
	if viewHeight <= 0 {
		return
	}
	line := a.buf.PosOf(a.cursor).Line
	if line < a.viewY {
		a.viewY = line
	} else if line >= a.viewY+viewHeight {
		a.viewY = line - viewHeight + 1
	}
}
