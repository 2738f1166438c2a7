// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/reflow/internal/logger"
)

// Handler is an event subscriber. It returns true if it consumed the event,
// which stops delivery to later subscribers.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
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
	logger.DebugTagf("event", "handler subscribed to %v", eventType)
}

// Dispatch delivers an event synchronously to the handlers of its type,
// in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	e := Event{Type: eventType, Data: data}

	m.mu.RLock()
	// Copy so a handler may subscribe while we iterate.
	handlers := make([]Handler, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	for _, handler := range handlers {
		if handler(e) {
			logger.DebugTagf("event", "%v consumed by handler", eventType)
			return
		}
	}
}
