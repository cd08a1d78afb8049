package service

// EventBroadcaster pushes activity events to connected dashboard clients.
// Implemented by the websocket hub; a no-op implementation works for tests.
type EventBroadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// NopBroadcaster discards events.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastEvent(string, interface{}) {}
