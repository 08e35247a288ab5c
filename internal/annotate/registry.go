// internal/annotate/registry.go
package annotate

import "sync"

// Registry is the ordered collection of live annotations for one buffer.
// Insertion order is the render tie-break. Individual removal is not
// supported; the only retraction path is the bulk clear driven by the
// session at cycle end.
type Registry struct {
	mu          sync.RWMutex
	annotations []Annotation
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		annotations: make([]Annotation, 0, 8),
	}
}

// Append adds an annotation at the end of the render order.
func (r *Registry) Append(a Annotation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.annotations = append(r.annotations, a)
}

// ClearAll removes every live annotation.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.annotations = r.annotations[:0]
}

// IsEmpty reports whether any annotations are live.
func (r *Registry) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.annotations) == 0
}

// Len returns the number of live annotations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.annotations)
}

// Snapshot returns a copy of the live annotations in insertion order,
// safe to hand to a renderer while the cycle is still accumulating.
func (r *Registry) Snapshot() []Annotation {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Annotation, len(r.annotations))
	copy(out, r.annotations)
	return out
}
