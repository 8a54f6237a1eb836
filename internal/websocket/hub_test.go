package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"heartlink-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestHub() *Hub {
	return NewHub(nil, nil, nopLogger{})
}

// recvFrame pops one outbound frame off the client's send buffer.
func recvFrame(t *testing.T, c *Client) dto.Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var env dto.Envelope
		require.NoError(t, json.Unmarshal(data, &env))
		return env
	case <-time.After(time.Second):
		t.Fatal("no frame delivered")
		return dto.Envelope{}
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, nil)
	hub.Register(client)

	identity := uuid.New()
	hub.Join(identity, client)
	hub.Join(identity, client)

	assert.Equal(t, 1, hub.RoomSize(identity))

	hub.Broadcast(identity, dto.EventReceiveMessage, "hello")
	env := recvFrame(t, client)
	assert.Equal(t, dto.EventReceiveMessage, env.Event)

	// Exactly one copy despite the double join.
	assert.Empty(t, client.send)
}

func TestBroadcastReachesEverySession(t *testing.T) {
	hub := newTestHub()
	identity := uuid.New()

	tab := newClient(hub, nil)
	phone := newClient(hub, nil)
	hub.Register(tab)
	hub.Register(phone)
	hub.Join(identity, tab)
	hub.Join(identity, phone)

	hub.Broadcast(identity, dto.EventReceiveMessage, map[string]string{"message": "hi"})

	for _, c := range []*Client{tab, phone} {
		env := recvFrame(t, c)
		assert.Equal(t, dto.EventReceiveMessage, env.Event)
		assert.JSONEq(t, `{"message":"hi"}`, string(env.Data))
	}
}

func TestBroadcastToEmptyRoomIsNoOp(t *testing.T) {
	hub := newTestHub()
	hub.Broadcast(uuid.New(), dto.EventReceiveMessage, "hello")
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, nil)
	hub.Register(client)

	a, b := uuid.New(), uuid.New()
	hub.Join(a, client)
	hub.Join(b, client)
	assert.Len(t, hub.Identities(client), 2)

	hub.Unregister(client)

	assert.Equal(t, 0, hub.RoomSize(a))
	assert.Equal(t, 0, hub.RoomSize(b))
	assert.Empty(t, hub.Identities(client))

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed")

	// A second unregister must not panic on the closed channel.
	hub.Unregister(client)
}

func TestUnregisterWithoutJoin(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, nil)
	hub.Register(client)

	hub.Unregister(client)

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed")
}

func TestSlowConsumerIsDropped(t *testing.T) {
	hub := newTestHub()
	identity := uuid.New()

	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(slow)
	hub.Join(identity, slow)

	hub.Broadcast(identity, dto.EventReceiveMessage, "first")
	hub.Broadcast(identity, dto.EventReceiveMessage, "second")

	assert.Equal(t, 0, hub.RoomSize(identity))
	assert.Empty(t, hub.Identities(slow))
}

func TestEmitAfterDropIsSafe(t *testing.T) {
	hub := newTestHub()
	identity := uuid.New()

	slow := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(slow)
	hub.Join(identity, slow)

	// The second broadcast overflows the buffer, so the hub drops the
	// session and closes its send channel.
	hub.Broadcast(identity, dto.EventReceiveMessage, "first")
	hub.Broadcast(identity, dto.EventReceiveMessage, "second")
	require.Equal(t, 0, hub.RoomSize(identity))

	// A reply racing the drop must be a silent no-op, not a panic on the
	// closed channel.
	slow.Emit(dto.EventError, "too late")
}

func TestEmitToUnregisteredClientIsNoOp(t *testing.T) {
	hub := newTestHub()
	client := newClient(hub, nil)
	hub.Register(client)
	hub.Unregister(client)

	client.Emit(dto.EventError, "gone")
}

func TestBroadcastEnvelopeShape(t *testing.T) {
	hub := newTestHub()
	identity := uuid.New()
	client := newClient(hub, nil)
	hub.Register(client)
	hub.Join(identity, client)

	msg := dto.ChatMessage{
		Id:         uuid.New(),
		SenderId:   identity,
		ReceiverId: uuid.New(),
		Message:    "hello there",
		SentAt:     time.Now().UTC(),
	}
	hub.Broadcast(identity, dto.EventReceiveMessage, &msg)

	env := recvFrame(t, client)
	assert.Equal(t, dto.EventReceiveMessage, env.Event)

	var got dto.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, msg.Id, got.Id)
	assert.Equal(t, "hello there", got.Message)
}
