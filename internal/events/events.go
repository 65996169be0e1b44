// Package events decouples state containers from notification rendering.
// Containers publish domain events; a presentation layer subscribes and
// shows toasts. Publishing never fails the publisher.
package events

import "sync"

type Type string

const (
	ItemAdded       Type = "cart.item_added"
	ItemRemoved     Type = "cart.item_removed"
	QuantityChanged Type = "cart.quantity_changed"
	CartCleared     Type = "cart.cleared"
	LoginSucceeded  Type = "auth.login_succeeded"
	RegisterOK      Type = "auth.register_succeeded"
	LoggedOut       Type = "auth.logged_out"
	ProfileUpdated  Type = "auth.profile_updated"
	ErrorOccurred   Type = "error"
)

type Event struct {
	Type    Type
	Message string
	Err     error
}

type Handler func(Event)

// Bus fans events out synchronously to all subscribers.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus { return &Bus{} }

func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscriber. A panicking subscriber is
// swallowed so state transitions never depend on the observer.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		func() {
			defer func() { _ = recover() }()
			h(e)
		}()
	}
}
