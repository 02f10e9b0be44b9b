package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	websocketManager "github.com/nbailey1776/facial-recognition-app/infrastructure/websocket"
	"github.com/nbailey1776/facial-recognition-app/pkg/logger"
)

type WebSocketHandler struct{}

func NewWebSocketHandler() *WebSocketHandler {
	return &WebSocketHandler{}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket registers the client with the event hub and drains its
// read side until it disconnects. The stream is broadcast-only; inbound
// messages are discarded.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	clientID := websocketManager.Manager.RegisterClient(c)
	defer websocketManager.Manager.UnregisterClient(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			logger.WebSocketError("read_message", "WebSocket read error", err,
				map[string]interface{}{"client_id": clientID.String()})
			break
		}
	}
}
