package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Wire event names, client->server and server->client.
const (
	EventJoin           = "join"
	EventSendMessage    = "sendMessage"
	EventGetMessages    = "getMessages"
	EventReceiveMessage = "receiveMessage"
	EventMessageHistory = "messageHistory"
	EventError          = "errorMessage"

	EventConnectionRequest  = "connectionRequest"
	EventConnectionAccepted = "connectionAccepted"
)

// Envelope is the frame exchanged over the websocket in both directions:
// {"event": "...", "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the client payload for the sendMessage event. Ids are
// strings on the wire; the gateway parses and rejects malformed ones.
type SendMessagePayload struct {
	SenderId   string `json:"senderId"`
	ReceiverId string `json:"receiverId"`
	Message    string `json:"message"`
}

// GetMessagesPayload is the client payload for the getMessages event.
type GetMessagesPayload struct {
	UserId      string `json:"userId"`
	OtherUserId string `json:"otherUserId"`
}

// ChatMessage is the wire shape of a persisted message.
type ChatMessage struct {
	Id         uuid.UUID `json:"id"`
	SenderId   uuid.UUID `json:"senderId"`
	ReceiverId uuid.UUID `json:"receiverId"`
	Message    string    `json:"message"`
	SentAt     time.Time `json:"sentAt"`
}
