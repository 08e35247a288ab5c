// internal/types/span.go
package types

// Span is a half-open byte range [Beg, End) within the buffer.
// A Span with Beg == End is a zero-width point (used to anchor
// deletion markers at the site where text used to be).
type Span struct {
	Beg int
	End int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	if s.End < s.Beg {
		return 0
	}
	return s.End - s.Beg
}

// IsEmpty reports whether the span covers no bytes.
func (s Span) IsEmpty() bool {
	return s.End <= s.Beg
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(off int) bool {
	return off >= s.Beg && off < s.End
}
