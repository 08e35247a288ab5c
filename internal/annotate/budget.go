// internal/annotate/budget.go
package annotate

import (
	"sync"

	"github.com/rivo/uniseg"
)

// DefaultLimit is the budget ceiling in characters applied when the host
// does not configure one. A single reformat-everything edit is as costly
// as thousands of small ones, which is why the budget is measured in
// characters touched rather than annotation count.
const DefaultLimit = 10000

// Budget tracks the cumulative characters touched during the current
// operation cycle. Every mutation notification is charged, eligible or
// not, so a stream of small allowed edits cannot bypass the cap.
//
// The fixed evaluation order is "accumulate, then check": a notification
// first charges its own size, and only then is OverLimit consulted for
// that same notification.
type Budget struct {
	mu      sync.Mutex
	touched int
	limit   int
}

// NewBudget creates a budget with the given character ceiling. A
// non-positive limit falls back to DefaultLimit.
func NewBudget(limit int) *Budget {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Budget{limit: limit}
}

// Charge adds n touched characters to the cycle total.
func (b *Budget) Charge(n int) {
	if n <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touched += n
}

// OverLimit reports whether the cycle total has reached the ceiling.
// Reaching the limit is the designed throttling signal, not an error.
func (b *Budget) OverLimit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched >= b.limit
}

// Touched returns the characters charged so far this cycle.
func (b *Budget) Touched() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.touched
}

// Limit returns the configured ceiling.
func (b *Budget) Limit() int {
	return b.limit
}

// Reset zeroes the cycle total. Called exactly once per cycle, at cycle
// end, always paired with the registry clear.
func (b *Budget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touched = 0
}

// charCount measures text in user-perceived characters (grapheme
// clusters), so a multi-byte emoji costs one and not four.
func charCount(text []byte) int {
	return uniseg.GraphemeClusterCount(string(text))
}
