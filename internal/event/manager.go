// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/undomark/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed (prevents further processing
// if needed). The return value is currently unused by the dispatcher.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
//
// Dispatch is synchronous and runs handlers in subscription order; the
// annotation engine relies on this ordering to observe mutations in the
// order they physically occur.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
}

// Dispatch sends an event to all registered handlers for its type,
// synchronously, in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	event := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	handlers := m.handlers[eventType]
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	logger.DebugTagf("event", "Dispatching event type %v to %d handler(s)", eventType, len(handlers))

	// Copy so a handler subscribing during dispatch cannot grow the
	// slice we are iterating.
	handlersCopy := make([]Handler, len(handlers))
	copy(handlersCopy, handlers)

	for _, handler := range handlersCopy {
		handler(event)
	}
}
