package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sendCall struct {
	senderId   uuid.UUID
	receiverId uuid.UUID
	body       string
}

// fakeChat stands in for the chat service so gateway dispatch and error
// reporting are tested in isolation.
type fakeChat struct {
	sends   []sendCall
	sendErr error

	history    []*dto.ChatMessage
	historyErr error
}

func (f *fakeChat) SendMessage(ctx context.Context, senderId, receiverId uuid.UUID, body string) (*dto.ChatMessage, error) {
	f.sends = append(f.sends, sendCall{senderId: senderId, receiverId: receiverId, body: body})
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return &dto.ChatMessage{
		Id:         uuid.New(),
		SenderId:   senderId,
		ReceiverId: receiverId,
		Message:    body,
		SentAt:     time.Now().UTC(),
	}, nil
}

func (f *fakeChat) GetHistory(ctx context.Context, userId, otherUserId uuid.UUID) ([]*dto.ChatMessage, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func newGatewayFixture() (*Hub, *fakeChat, *Gateway, *Client) {
	hub := newTestHub()
	chat := &fakeChat{}
	gateway := NewGateway(hub, chat, nopLogger{})
	client := newClient(hub, nil)
	hub.Register(client)
	return hub, chat, gateway, client
}

func frame(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	out, err := json.Marshal(dto.Envelope{Event: event, Data: raw})
	require.NoError(t, err)
	return out
}

func errorText(t *testing.T, env dto.Envelope) string {
	t.Helper()
	require.Equal(t, dto.EventError, env.Event)
	var text string
	require.NoError(t, json.Unmarshal(env.Data, &text))
	return text
}

func TestHandleMalformedFrame(t *testing.T) {
	_, _, gateway, client := newGatewayFixture()

	gateway.Handle(context.Background(), client, []byte("{not json"))

	env := recvFrame(t, client)
	assert.Equal(t, "Malformed frame", errorText(t, env))
}

func TestHandleUnknownEvent(t *testing.T) {
	_, _, gateway, client := newGatewayFixture()

	gateway.Handle(context.Background(), client, frame(t, "selfDestruct", nil))

	env := recvFrame(t, client)
	assert.Contains(t, errorText(t, env), "selfDestruct")
}

func TestHandleJoin(t *testing.T) {
	hub, _, gateway, client := newGatewayFixture()
	identity := uuid.New()

	gateway.Handle(context.Background(), client, frame(t, dto.EventJoin, identity.String()))

	assert.Equal(t, 1, hub.RoomSize(identity))
	assert.Empty(t, client.send, "successful join emits nothing")
}

func TestHandleJoinInvalidId(t *testing.T) {
	hub, _, gateway, client := newGatewayFixture()

	gateway.Handle(context.Background(), client, frame(t, dto.EventJoin, "not-a-uuid"))

	env := recvFrame(t, client)
	assert.Equal(t, "Invalid user id", errorText(t, env))
	assert.Empty(t, hub.Identities(client))
}

func TestHandleSendMessageDispatch(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()
	sender, receiver := uuid.New(), uuid.New()

	gateway.Handle(context.Background(), client, frame(t, dto.EventSendMessage, dto.SendMessagePayload{
		SenderId:   sender.String(),
		ReceiverId: receiver.String(),
		Message:    "hey!",
	}))

	require.Len(t, chat.sends, 1)
	assert.Equal(t, sender, chat.sends[0].senderId)
	assert.Equal(t, receiver, chat.sends[0].receiverId)
	assert.Equal(t, "hey!", chat.sends[0].body)
	assert.Empty(t, client.send, "delivery happens via the hub, not the gateway")
}

func TestHandleSendMessageInvalidIds(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()

	gateway.Handle(context.Background(), client, frame(t, dto.EventSendMessage, dto.SendMessagePayload{
		SenderId:   "garbage",
		ReceiverId: uuid.NewString(),
		Message:    "hey!",
	}))

	env := recvFrame(t, client)
	assert.Equal(t, "Invalid sender id", errorText(t, env))
	assert.Empty(t, chat.sends)
}

func TestHandleSendMessageUserFacingError(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()
	chat.sendErr = apperror.Wrap(apperror.ErrNotConnected, "you are not connected with this user")

	gateway.Handle(context.Background(), client, frame(t, dto.EventSendMessage, dto.SendMessagePayload{
		SenderId:   uuid.NewString(),
		ReceiverId: uuid.NewString(),
		Message:    "hey!",
	}))

	env := recvFrame(t, client)
	assert.Contains(t, errorText(t, env), "not connected")
}

func TestHandleSendMessageInternalError(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()
	chat.sendErr = errors.New("pq: connection refused")

	gateway.Handle(context.Background(), client, frame(t, dto.EventSendMessage, dto.SendMessagePayload{
		SenderId:   uuid.NewString(),
		ReceiverId: uuid.NewString(),
		Message:    "hey!",
	}))

	// Internal detail stays server-side.
	env := recvFrame(t, client)
	assert.Equal(t, "Failed to send message", errorText(t, env))
}

func TestHandleGetMessages(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()
	userId, otherId := uuid.New(), uuid.New()
	chat.history = []*dto.ChatMessage{
		{Id: uuid.New(), SenderId: userId, ReceiverId: otherId, Message: "first"},
		{Id: uuid.New(), SenderId: otherId, ReceiverId: userId, Message: "second"},
	}

	gateway.Handle(context.Background(), client, frame(t, dto.EventGetMessages, dto.GetMessagesPayload{
		UserId:      userId.String(),
		OtherUserId: otherId.String(),
	}))

	env := recvFrame(t, client)
	require.Equal(t, dto.EventMessageHistory, env.Event)

	var got []*dto.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Message)
	assert.Equal(t, "second", got[1].Message)
}

func TestHandleGetMessagesGateError(t *testing.T) {
	_, chat, gateway, client := newGatewayFixture()
	chat.historyErr = fmt.Errorf("load conversation: %w", apperror.ErrNotConnected)

	gateway.Handle(context.Background(), client, frame(t, dto.EventGetMessages, dto.GetMessagesPayload{
		UserId:      uuid.NewString(),
		OtherUserId: uuid.NewString(),
	}))

	env := recvFrame(t, client)
	assert.Contains(t, errorText(t, env), "not connected")
}
