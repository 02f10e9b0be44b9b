package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

// Event is the envelope sent to every connected client.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Hub tracks websocket clients and broadcasts workflow events (capture
// progress, recognition frames) to all of them. It implements
// services.EventPublisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]uuid.UUID
}

// Manager is the shared hub instance.
var Manager = NewHub()

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uuid.UUID)}
}

// RegisterClient adds a connection and returns its client ID.
func (h *Hub) RegisterClient(conn *websocket.Conn) uuid.UUID {
	id := uuid.New()

	h.mu.Lock()
	h.clients[conn] = id
	count := len(h.clients)
	h.mu.Unlock()

	logger.WebSocket("client_connected", "WebSocket client connected", map[string]interface{}{
		"client_id": id.String(),
		"clients":   count,
	})
	return id
}

// UnregisterClient drops a connection.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mu.Lock()
	id, ok := h.clients[conn]
	delete(h.clients, conn)
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		logger.WebSocket("client_disconnected", "WebSocket client disconnected", map[string]interface{}{
			"client_id": id.String(),
			"clients":   count,
		})
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish broadcasts one event to every client. Failed writes drop the
// client; the read loop will clean it up.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		logger.WebSocketError("event_marshal_failed", "Failed to marshal event", err,
			map[string]interface{}{"type": eventType})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			delete(h.clients, conn)
		}
	}
}
