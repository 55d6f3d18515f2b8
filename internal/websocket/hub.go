package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/cuckooblock/vendor-portal/pkg/logger"
)

// Event types pushed to connected clients.
const (
	EventVendorSubmitted     = "vendor.submitted"
	EventVendorStatusChanged = "vendor.status_changed"
	EventReviewReminder      = "review.reminder"
)

// Event is the JSON message written to clients.
type Event struct {
	Type      string    `json:"type"`
	VendorID  string    `json:"vendor_id,omitempty"`
	LegalName string    `json:"legal_name,omitempty"`
	Status    string    `json:"status,omitempty"`
	Count     int64     `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

// Client is one websocket session. A user may hold several.
type Client struct {
	Hub     *Hub
	Conn    *Conn
	UserID  string
	IsAdmin bool
	Send    chan []byte
}

// NewClient creates a client with a buffered send queue.
func NewClient(hub *Hub, conn *Conn, userID string, isAdmin bool) *Client {
	return &Client{
		Hub:     hub,
		Conn:    conn,
		UserID:  userID,
		IsAdmin: isAdmin,
		Send:    make(chan []byte, 64),
	}
}

type delivery struct {
	userID     string
	adminsOnly bool
	payload    []byte
}

// Hub fans review events out to connected clients. The client map is owned
// by the Run goroutine; readers outside it take mu. done is closed once Run
// has returned.
type Hub struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan delivery
	done       chan struct{}
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan delivery, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and deliveries until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			close(h.done)
			h.drainRegistrations()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"is_admin":       client.IsAdmin,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	list, ok := h.clients[client.UserID]
	if !ok {
		return
	}
	kept := make([]*Client, 0, len(list))
	found := false
	for _, c := range list {
		if c == client {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return
	}
	if len(kept) == 0 {
		delete(h.clients, client.UserID)
	} else {
		h.clients[client.UserID] = kept
	}
	close(client.Send)

	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id": client.UserID,
	})
}

func (h *Hub) deliver(d delivery) {
	h.mu.RLock()
	var targets []*Client
	for userID, list := range h.clients {
		for _, c := range list {
			if (d.adminsOnly && c.IsAdmin) || (!d.adminsOnly && userID == d.userID) {
				targets = append(targets, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.Send <- d.payload:
		default:
			logger.Warn("WebSocket send queue full, dropping event", map[string]interface{}{
				"user_id": c.UserID,
			})
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, list := range h.clients {
		for _, c := range list {
			close(c.Send)
		}
		delete(h.clients, userID)
	}
}

// drainRegistrations closes clients that were queued but never added.
func (h *Hub) drainRegistrations() {
	for {
		select {
		case client := <-h.register:
			close(client.Send)
		default:
			return
		}
	}
}

// Register adds client. After shutdown the client's send queue is closed
// so its write pump exits.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		close(client.Send)
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Send)
	}
}

// Unregister removes client. It never blocks once the hub has stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// PublishToUser queues event for every session of userID.
func (h *Hub) PublishToUser(userID string, event Event) {
	h.enqueue(delivery{userID: userID}, event)
}

// PublishToAdmins queues event for every admin session.
func (h *Hub) PublishToAdmins(event Event) {
	h.enqueue(delivery{adminsOnly: true}, event)
}

func (h *Hub) enqueue(d delivery, event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal websocket event", err, map[string]interface{}{
			"type": event.Type,
		})
		return
	}
	d.payload = payload

	select {
	case h.broadcast <- d:
	default:
		logger.Warn("WebSocket broadcast queue full, dropping event", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// IsUserOnline reports whether userID has at least one open session.
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}
