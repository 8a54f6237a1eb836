package handler

import (
	"context"

	"heartlink-be/internal/pkg/logger"
	internalWS "heartlink-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChatHandler upgrades HTTP requests to websocket sessions and runs them
// against the chat gateway.
type ChatHandler struct {
	hub     *internalWS.Hub
	gateway *internalWS.Gateway
	logger  logger.ILogger
}

func NewChatHandler(hub *internalWS.Hub, gateway *internalWS.Gateway, log logger.ILogger) *ChatHandler {
	return &ChatHandler{
		hub:     hub,
		gateway: gateway,
		logger:  log,
	}
}

// ServeWs handles the websocket handshake. The session starts without an
// identity; the client attaches one with a join event. No credential is
// checked here, matching the self-asserted identity model documented on the
// gateway.
func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "WebSocket session started", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		internalWS.ServeClient(context.Background(), h.hub, h.gateway, conn)
		h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
	})(c)
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
