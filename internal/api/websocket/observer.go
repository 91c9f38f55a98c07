package websocket

import (
	"github.com/desktopmtg/desktopmtg/internal/events"
)

// Observer forwards dispatched build and scoring events to websocket clients.
// It implements events.Observer.
type Observer struct {
	hub *Hub
}

// NewObserver creates an observer bound to hub.
func NewObserver(hub *Hub) *Observer {
	return &Observer{hub: hub}
}

// OnEvent broadcasts the event to all connected clients.
func (o *Observer) OnEvent(event events.Event) error {
	o.hub.Broadcast(Message{
		Type:  event.Type,
		RunID: event.RunID,
		Data:  event.Data,
	})
	return nil
}

// GetName identifies the observer in dispatcher logs.
func (o *Observer) GetName() string {
	return "websocket"
}

// ShouldHandle forwards build progress but not per-card scoring events,
// which are far too chatty for a UI stream.
func (o *Observer) ShouldHandle(eventType string) bool {
	switch eventType {
	case events.TypeBuildStarted, events.TypeTrialCompleted, events.TypeBuildCompleted:
		return true
	default:
		return false
	}
}
