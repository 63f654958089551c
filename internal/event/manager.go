// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/modstudio/internal/logger"
)

// Handler receives dispatched events. The return value reports whether the
// event was consumed; consumed events are not passed to later handlers.
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
	logger.DebugTagf("event", "Event Manager: Handler subscribed to %v", eventType)
}

// SubscribeAll adds one handler for every known event type.
func (m *Manager) SubscribeAll(handler Handler) {
	for t := range typeNames {
		if t != TypeUnknown {
			m.Subscribe(t, handler)
		}
	}
}

// Dispatch sends an event to the handlers registered for its type,
// synchronously and in subscription order. A nil manager drops the event.
func (m *Manager) Dispatch(eventType Type, data any) {
	if m == nil {
		return
	}
	m.mu.RLock()
	handlers := make([]Handler, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}
	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlers))

	e := Event{Type: eventType, Data: data}
	for _, handler := range handlers {
		if handler(e) {
			break
		}
	}
}
