package service

import "github.com/cuckooblock/vendor-portal/internal/websocket"

// EventPublisher pushes review events to connected clients. *websocket.Hub
// satisfies it.
type EventPublisher interface {
	PublishToUser(userID string, event websocket.Event)
	PublishToAdmins(event websocket.Event)
}

type noopPublisher struct{}

func (noopPublisher) PublishToUser(string, websocket.Event) {}
func (noopPublisher) PublishToAdmins(websocket.Event)       {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}
