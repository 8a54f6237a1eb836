package websocket

import (
	"context"
	"encoding/json"
	"time"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/pkg/apperror"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/internal/service"

	"github.com/google/uuid"
)

// opTimeout bounds authorization and store calls so a stalled database
// surfaces as an errorMessage instead of a hung session.
const opTimeout = 10 * time.Second

// Gateway is the per-connection protocol handler. Every failure is reported
// to the originating session as an errorMessage event; the connection itself
// stays open and usable.
//
// Identity on join/sendMessage is self-asserted by the payload, not bound to
// an authenticated session. Known gap carried over from the observed
// protocol; a hardened deployment should derive identity from the JWT
// presented at upgrade time instead.
type Gateway struct {
	hub  *Hub
	chat service.IChatService

	logger logger.ILogger
}

func NewGateway(hub *Hub, chat service.IChatService, log logger.ILogger) *Gateway {
	return &Gateway{
		hub:    hub,
		chat:   chat,
		logger: log,
	}
}

// Handle dispatches one inbound frame.
func (g *Gateway) Handle(ctx context.Context, c *Client, raw []byte) {
	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.Emit(dto.EventError, "Malformed frame")
		return
	}

	switch env.Event {
	case dto.EventJoin:
		g.handleJoin(c, env.Data)
	case dto.EventSendMessage:
		g.handleSendMessage(ctx, c, env.Data)
	case dto.EventGetMessages:
		g.handleGetMessages(ctx, c, env.Data)
	default:
		c.Emit(dto.EventError, "Unknown event: "+env.Event)
	}
}

func (g *Gateway) handleJoin(c *Client, data json.RawMessage) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		c.Emit(dto.EventError, "Invalid join payload")
		return
	}
	identity, err := uuid.Parse(raw)
	if err != nil {
		c.Emit(dto.EventError, "Invalid user id")
		return
	}

	g.hub.Join(identity, c)
}

func (g *Gateway) handleSendMessage(ctx context.Context, c *Client, data json.RawMessage) {
	var payload dto.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.Emit(dto.EventError, "Invalid sendMessage payload")
		return
	}
	senderId, err := uuid.Parse(payload.SenderId)
	if err != nil {
		c.Emit(dto.EventError, "Invalid sender id")
		return
	}
	receiverId, err := uuid.Parse(payload.ReceiverId)
	if err != nil {
		c.Emit(dto.EventError, "Invalid receiver id")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// The service broadcasts to both rooms after a committed append; the
	// gateway only reports failures to the originating session.
	if _, err := g.chat.SendMessage(opCtx, senderId, receiverId, payload.Message); err != nil {
		g.emitError(c, err, "Failed to send message")
	}
}

func (g *Gateway) handleGetMessages(ctx context.Context, c *Client, data json.RawMessage) {
	var payload dto.GetMessagesPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		c.Emit(dto.EventError, "Invalid getMessages payload")
		return
	}
	userId, err := uuid.Parse(payload.UserId)
	if err != nil {
		c.Emit(dto.EventError, "Invalid user id")
		return
	}
	otherUserId, err := uuid.Parse(payload.OtherUserId)
	if err != nil {
		c.Emit(dto.EventError, "Invalid user id")
		return
	}

	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	history, err := g.chat.GetHistory(opCtx, userId, otherUserId)
	if err != nil {
		g.emitError(c, err, "Failed to load messages")
		return
	}

	// History goes to the originating session only, never broadcast.
	c.Emit(dto.EventMessageHistory, history)
}

// emitError reports taxonomy errors verbatim and hides everything else
// behind a generic message, logging the detail server-side.
func (g *Gateway) emitError(c *Client, err error, fallback string) {
	if apperror.IsUserFacing(err) {
		c.Emit(dto.EventError, err.Error())
		return
	}
	g.logger.Error("Gateway", fallback, map[string]interface{}{"error": err.Error()})
	c.Emit(dto.EventError, fallback)
}
