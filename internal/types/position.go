// internal/types/position.go
package types

// Position represents a text position within the buffer for display
// purposes. Line is the 0-based line index. Col is the 0-based byte
// column within the line; visual columns are computed at draw time.
type Position struct {
	Line int
	Col  int
}
