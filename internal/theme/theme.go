// internal/theme/theme.go
package theme

import (
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Theme maps style names to tcell styles. Annotation styles live under
// the "annotation." prefix; the base name is the fallback when a variant
// (e.g. "annotation.delete") is missing.
type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle resolves a style name, falling back to the base name before
// the dot, then to "Default".
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		if style, ok := t.Styles[name[:dotIndex]]; ok {
			return style
		}
	}

	if defStyle, ok := t.Styles["Default"]; ok {
		return defStyle
	}
	return tcell.StyleDefault
}

// --- Flash Dark Theme Definition ---

var FlashDark Theme

func init() {
	background := tcell.NewHexColor(0x2a2f38) // Muted dark blue/grey
	foreground := tcell.NewHexColor(0xc5cdd9) // Soft off-white
	gutter := tcell.NewHexColor(0x5c6370)     // Muted grey
	green := tcell.NewHexColor(0x98c379)      // Insert flash
	red := tcell.NewHexColor(0xe06c75)        // Delete flash
	blue := tcell.NewHexColor(0x61afef)
	_ = green

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(foreground)

	FlashDark = Theme{
		Name:   "flash-dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			"Default":    baseStyle,
			"LineNumber": baseStyle.Foreground(gutter),
			"StatusBar":  tcell.StyleDefault.Foreground(foreground).Background(background),
			"StatusBar.Message": tcell.StyleDefault.Foreground(foreground).
				Background(background).Bold(true),

			// The inserted range stays live in the buffer; a background
			// tint is enough.
			"annotation.insert": baseStyle.Background(tcell.NewHexColor(0x2d4a2f)),
			// Deleted content is phantom text: it no longer exists in
			// the buffer, so it gets the loudest treatment.
			"annotation.delete": tcell.StyleDefault.Foreground(red).
				Background(tcell.NewHexColor(0x4a2d2d)).StrikeThrough(true),

			"annotation.cursor": baseStyle.Foreground(blue),
		},
	}
}

var (
	currentMu    sync.RWMutex
	currentTheme = &FlashDark
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return currentTheme
}

// SetCurrentTheme swaps the active theme.
func SetCurrentTheme(t *Theme) {
	if t == nil {
		return
	}
	currentMu.Lock()
	currentTheme = t
	currentMu.Unlock()
}
