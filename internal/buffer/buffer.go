// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/undomark/internal/types"

// Buffer defines the interface for text buffer operations. All positions
// are byte offsets into the full buffer content; ranges are half-open.
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error

	Len() int
	Bytes() []byte
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int

	// ReadRange returns a copy of [beg, end). It is the snapshot reader
	// the annotation engine uses in the pre-mutation deletion path.
	ReadRange(beg, end int) ([]byte, error)

	// Insert places text at the byte offset.
	Insert(off int, text []byte) error
	// Delete removes [beg, end) and returns a copy of the removed text.
	Delete(beg, end int) ([]byte, error)

	// PosOf converts a byte offset into a line/column position.
	PosOf(off int) types.Position
	// LineStart returns the byte offset where a line begins.
	LineStart(index int) (int, error)

	FilePath() string
	IsModified() bool
}
