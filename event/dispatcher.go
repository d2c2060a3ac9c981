package event

import (
	"sync"

	"github.com/google/uuid"
)

// Handler receives dispatched events.
type Handler func(Event)

// Subscription identifies a registered handler.
type Subscription struct {
	ID   string
	Type Type
}

// Dispatcher fans events out to subscribed handlers. The zero value is
// not usable; create one with NewDispatcher. Safe for concurrent use.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type]map[string]Handler
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Type]map[string]Handler)}
}

// Subscribe registers a handler for events of the given type.
func (d *Dispatcher) Subscribe(t Type, h Handler) Subscription {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.handlers[t] == nil {
		d.handlers[t] = make(map[string]Handler)
	}
	sub := Subscription{ID: uuid.NewString(), Type: t}
	d.handlers[t][sub.ID] = h
	return sub
}

// Unsubscribe removes a previously registered handler.
func (d *Dispatcher) Unsubscribe(sub Subscription) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	hs, ok := d.handlers[sub.Type]
	if !ok {
		return false
	}
	if _, ok := hs[sub.ID]; !ok {
		return false
	}
	delete(hs, sub.ID)
	return true
}

// Dispatch delivers the event to all handlers subscribed to its type.
// Handlers run on the caller's goroutine, outside the dispatcher lock.
func (d *Dispatcher) Dispatch(e Event) {
	d.mu.RLock()
	hs := make([]Handler, 0, len(d.handlers[e.Type]))
	for _, h := range d.handlers[e.Type] {
		hs = append(hs, h)
	}
	d.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}
