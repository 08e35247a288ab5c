// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"
	"sort"

	"github.com/bethropolis/undomark/internal/annotate"
	"github.com/bethropolis/undomark/internal/buffer"
	"github.com/bethropolis/undomark/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// visualColumnAt returns the visual column where the grapheme containing
// byte offset byteCol begins.
func visualColumnAt(line []byte, byteCol, tabWidth int) int {
	visual := 0
	consumed := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		if consumed >= byteCol {
			break
		}
		runes := gr.Runes()
		if len(runes) == 1 && runes[0] == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual += gr.Width()
		}
		consumed += len(gr.Str())
	}
	return visual
}

// gutterWidth computes the line-number gutter width, 0 when the screen is
// too narrow.
func gutterWidth(lineCount, screenWidth int) int {
	if lineCount <= 0 {
		lineCount = 1
	}
	maxDigits := int(math.Log10(float64(lineCount))) + 1
	gw := maxDigits + 1 // padding column between number and text
	if gw >= screenWidth {
		return 0
	}
	return gw
}

// DrawBuffer draws the visible portion of the buffer with live
// annotations layered on top. Insert annotations restyle their range;
// delete annotations render their captured text as phantom content at the
// anchor point. Deletes carry the higher priority and are drawn last, so
// they sit above adjacent insert styling.
func DrawBuffer(t *TUI, buf buffer.Buffer, anns []annotate.Annotation, viewY, tabWidth int, activeTheme *theme.Theme) {
	if activeTheme == nil {
		activeTheme = theme.GetCurrentTheme()
	}
	defaultStyle := activeTheme.GetStyle("Default")
	lineNumberStyle := activeTheme.GetStyle("LineNumber")
	insertStyle := activeTheme.GetStyle("annotation.insert")
	deleteStyle := activeTheme.GetStyle("annotation.delete")

	width, height := t.Size()
	viewHeight := height - 1 // status bar
	if viewHeight <= 0 || width <= 0 {
		return
	}

	lines := buf.Lines()
	gw := gutterWidth(len(lines), width)
	maxDigits := gw - 1

	// Stable sort by priority: higher priority drawn later, insertion
	// order breaking ties.
	ordered := make([]annotate.Annotation, len(anns))
	copy(ordered, anns)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	inserts := make([]annotate.Annotation, 0, len(ordered))
	deletes := make([]annotate.Annotation, 0, len(ordered))
	for _, a := range ordered {
		switch a.Kind {
		case annotate.KindInsert:
			inserts = append(inserts, a)
		case annotate.KindDelete:
			deletes = append(deletes, a)
		}
	}

	for screenY := 0; screenY < viewHeight; screenY++ {
		lineIdx := screenY + viewY

		for fillX := 0; fillX < width; fillX++ {
			t.screen.SetContent(fillX, screenY, ' ', nil, defaultStyle)
		}

		if lineIdx < 0 || lineIdx >= len(lines) {
			continue
		}

		if gw > 0 {
			numStr := fmt.Sprintf("%*d", maxDigits, lineIdx+1)
			for i, r := range numStr {
				if i < maxDigits {
					t.screen.SetContent(i, screenY, r, nil, lineNumberStyle)
				}
			}
		}

		lineStart, err := buf.LineStart(lineIdx)
		if err != nil {
			continue
		}
		lineBytes := lines[lineIdx]

		visualX := 0
		byteInLine := 0
		gr := uniseg.NewGraphemes(string(lineBytes))
		for gr.Next() {
			runes := gr.Runes()
			off := lineStart + byteInLine

			style := defaultStyle
			for _, a := range inserts {
				if a.Span.Contains(off) {
					style = insertStyle
					break
				}
			}

			screenX := gw + visualX
			if len(runes) == 1 && runes[0] == '\t' {
				spaces := tabWidth - (visualX % tabWidth)
				for i := 0; i < spaces && screenX+i < width; i++ {
					t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
				}
				visualX += spaces
			} else {
				w := gr.Width()
				if screenX < width {
					t.screen.SetContent(screenX, screenY, runes[0], runes[1:], style)
					for cw := 1; cw < w && screenX+cw < width; cw++ {
						t.screen.SetContent(screenX+cw, screenY, ' ', nil, style)
					}
				}
				visualX += w
			}

			byteInLine += len(gr.Str())
			if gw+visualX >= width {
				break
			}
		}
	}

	// Phantom deleted text, drawn last so it occludes insert styling
	// when both land adjacently (replace within one cycle).
	for _, a := range deletes {
		drawPhantom(t, buf, a, viewY, viewHeight, gw, tabWidth, width, deleteStyle)
	}
}

// drawPhantom renders a delete annotation's captured text at its anchor.
// Only the first captured line is shown; a multi-line capture gets an
// ellipsis.
func drawPhantom(t *TUI, buf buffer.Buffer, a annotate.Annotation, viewY, viewHeight, gw, tabWidth, width int, style tcell.Style) {
	pos := buf.PosOf(a.Span.Beg)
	screenY := pos.Line - viewY
	if screenY < 0 || screenY >= viewHeight {
		return
	}

	text := a.Text
	truncated := false
	for i, b := range text {
		if b == '\n' {
			text = text[:i]
			truncated = true
			break
		}
	}
	display := string(text)
	if truncated {
		display += "…"
	}
	if display == "" {
		return
	}

	line, err := buf.Line(pos.Line)
	if err != nil {
		return
	}
	screenX := gw + visualColumnAt(line, pos.Col, tabWidth)

	gr := uniseg.NewGraphemes(display)
	for gr.Next() {
		if screenX >= width {
			break
		}
		runes := gr.Runes()
		t.screen.SetContent(screenX, screenY, runes[0], runes[1:], style)
		screenX += gr.Width()
	}
}

// DrawCursor positions the terminal cursor for the given byte offset.
func DrawCursor(t *TUI, buf buffer.Buffer, cursorOff, viewY, tabWidth int) {
	pos := buf.PosOf(cursorOff)
	width, height := t.Size()
	viewHeight := height - 1
	gw := gutterWidth(buf.LineCount(), width)

	line, err := buf.Line(pos.Line)
	if err != nil {
		t.screen.HideCursor()
		return
	}

	screenX := gw + visualColumnAt(line, pos.Col, tabWidth)
	screenY := pos.Line - viewY

	if screenX < gw || screenX >= width || screenY < 0 || screenY >= viewHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(screenX, screenY)
}
