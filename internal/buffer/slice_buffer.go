// internal/buffer/slice_buffer.go
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/undomark/internal/types"
)

// SliceBuffer keeps the whole text in one byte slice and derives line
// structure on demand. Offset-addressed edits stay trivial that way, and
// the line cache only rebuilds after a mutation.
type SliceBuffer struct {
	content  []byte
	filePath string
	modified bool

	lines      [][]byte // cached split of content, nil when dirty
	lineStarts []int    // byte offset of each cached line start
}

// NewSliceBuffer creates an empty SliceBuffer.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{content: []byte("")}
}

// NewSliceBufferFromString creates a buffer with initial content.
func NewSliceBufferFromString(s string) *SliceBuffer {
	return &SliceBuffer{content: []byte(s)}
}

// Load reads a file into the buffer, replacing existing content. A
// missing file yields an empty buffer bound to that path.
func (sb *SliceBuffer) Load(filePath string) error {
	sb.modified = false
	sb.invalidate()

	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sb.content = []byte("")
			sb.filePath = filePath
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	sb.content = data
	sb.filePath = filePath
	return nil
}

// Save writes the buffer content to the stored path, or to filePath when
// it is non-empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, sb.content, 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	sb.filePath = path
	sb.modified = false
	return nil
}

// Len returns the buffer length in bytes.
func (sb *SliceBuffer) Len() int {
	return len(sb.content)
}

// Bytes returns the full content. Callers must not mutate it.
func (sb *SliceBuffer) Bytes() []byte {
	return sb.content
}

// Lines returns the buffer split into lines (without trailing newlines).
func (sb *SliceBuffer) Lines() [][]byte {
	sb.ensureLines()
	return sb.lines
}

// LineCount returns the number of lines.
func (sb *SliceBuffer) LineCount() int {
	sb.ensureLines()
	return len(sb.lines)
}

// Line returns the content of one line.
func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	sb.ensureLines()
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line index %d out of bounds (0-%d)", index, len(sb.lines)-1)
	}
	return sb.lines[index], nil
}

// LineStart returns the byte offset where a line begins.
func (sb *SliceBuffer) LineStart(index int) (int, error) {
	sb.ensureLines()
	if index < 0 || index >= len(sb.lineStarts) {
		return 0, fmt.Errorf("line index %d out of bounds (0-%d)", index, len(sb.lineStarts)-1)
	}
	return sb.lineStarts[index], nil
}

// ReadRange returns a copy of [beg, end).
func (sb *SliceBuffer) ReadRange(beg, end int) ([]byte, error) {
	if beg < 0 || end > len(sb.content) || beg > end {
		return nil, fmt.Errorf("range [%d,%d) out of bounds (len %d)", beg, end, len(sb.content))
	}
	out := make([]byte, end-beg)
	copy(out, sb.content[beg:end])
	return out, nil
}

// Insert places text at the byte offset.
func (sb *SliceBuffer) Insert(off int, text []byte) error {
	if off < 0 || off > len(sb.content) {
		return fmt.Errorf("insert offset %d out of bounds (len %d)", off, len(sb.content))
	}
	if len(text) == 0 {
		return nil
	}
	updated := make([]byte, 0, len(sb.content)+len(text))
	updated = append(updated, sb.content[:off]...)
	updated = append(updated, text...)
	updated = append(updated, sb.content[off:]...)
	sb.content = updated
	sb.modified = true
	sb.invalidate()
	return nil
}

// Delete removes [beg, end) and returns a copy of the removed text.
func (sb *SliceBuffer) Delete(beg, end int) ([]byte, error) {
	if beg < 0 || end > len(sb.content) || beg > end {
		return nil, fmt.Errorf("delete range [%d,%d) out of bounds (len %d)", beg, end, len(sb.content))
	}
	removed := make([]byte, end-beg)
	copy(removed, sb.content[beg:end])
	if end > beg {
		sb.content = append(sb.content[:beg], sb.content[end:]...)
		sb.modified = true
		sb.invalidate()
	}
	return removed, nil
}

// PosOf converts a byte offset into a line/column position, clamping to
// the buffer bounds.
func (sb *SliceBuffer) PosOf(off int) types.Position {
	if off < 0 {
		off = 0
	}
	if off > len(sb.content) {
		off = len(sb.content)
	}
	sb.ensureLines()
	// Find the last line starting at or before off.
	line := 0
	for i := len(sb.lineStarts) - 1; i >= 0; i-- {
		if sb.lineStarts[i] <= off {
			line = i
			break
		}
	}
	return types.Position{Line: line, Col: off - sb.lineStarts[line]}
}

// FilePath returns the bound file path.
func (sb *SliceBuffer) FilePath() string {
	return sb.filePath
}

// IsModified reports unsaved changes.
func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

// invalidate drops the line cache after a mutation.
func (sb *SliceBuffer) invalidate() {
	sb.lines = nil
	sb.lineStarts = nil
}

// ensureLines rebuilds the line cache if needed.
func (sb *SliceBuffer) ensureLines() {
	if sb.lines != nil {
		return
	}
	parts := bytes.Split(sb.content, []byte("\n"))
	starts := make([]int, len(parts))
	off := 0
	for i, p := range parts {
		starts[i] = off
		off += len(p) + 1 // +1 for the newline separator
	}
	sb.lines = parts
	sb.lineStarts = starts
}
