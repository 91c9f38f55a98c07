// Package events distributes domain events (scoring breakdowns, deck build
// progress) to registered observers such as the websocket hub or a debug log.
package events

import (
	"context"
	"log"
	"sync"
)

// Event types emitted by the recommendation engine and deck builder.
const (
	TypeCardScored     = "score:card"
	TypeTrialCompleted = "build:trial"
	TypeBuildStarted   = "build:started"
	TypeBuildCompleted = "build:completed"
)

// Event is a domain event delivered to observers.
type Event struct {
	// Type is the event type, one of the Type* constants.
	Type string

	// RunID ties events from one build or recommendation run together.
	RunID string

	// Data contains the typed event payload.
	Data any

	// Context provides execution context for the event.
	Context context.Context
}

// Observer is notified of dispatched events. Implementations decide which
// event types they care about via ShouldHandle.
type Observer interface {
	OnEvent(event Event) error
	GetName() string
	ShouldHandle(eventType string) bool
}

// Dispatcher fan-outs events to observers. Thread-safe.
type Dispatcher struct {
	observers []Observer
	mu        sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{observers: make([]Observer, 0)}
}

// Register adds an observer. It will receive all future events it elects to
// handle.
func (d *Dispatcher) Register(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, observer)
	log.Printf("[events] registered observer: %s", observer.GetName())
}

// Unregister removes an observer.
func (d *Dispatcher) Unregister(observer Observer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, obs := range d.observers {
		if obs == observer {
			d.observers[i] = d.observers[len(d.observers)-1]
			d.observers = d.observers[:len(d.observers)-1]
			return
		}
	}
}

// Dispatch notifies observers sequentially in registration order. Observer
// errors are logged and do not stop delivery to the rest.
func (d *Dispatcher) Dispatch(event Event) {
	d.mu.RLock()
	observers := make([]Observer, len(d.observers))
	copy(observers, d.observers)
	d.mu.RUnlock()

	for _, observer := range observers {
		if !observer.ShouldHandle(event.Type) {
			continue
		}
		if err := observer.OnEvent(event); err != nil {
			log.Printf("[events] observer %s failed on %s: %v", observer.GetName(), event.Type, err)
		}
	}
}

// ObserverCount returns the number of registered observers.
func (d *Dispatcher) ObserverCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.observers)
}

// Clear removes all observers.
func (d *Dispatcher) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = make([]Observer, 0)
}

// GetData extracts a typed payload from an event. Returns the zero value and
// false when the payload is a different type.
func GetData[T any](event Event) (T, bool) {
	var zero T
	if event.Data == nil {
		return zero, false
	}
	typed, ok := event.Data.(T)
	return typed, ok
}
