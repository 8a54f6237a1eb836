package websocket

import (
	"context"
	"encoding/json"

	"sync"

	"heartlink-be/internal/dto"
	"heartlink-be/internal/pkg/logger"
	"heartlink-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub is the session registry: it maps identities to the live clients joined
// to that identity's room. A client may sit in several rooms at once, and a
// room holds every session of a user (multi-tab, multi-device). All map
// mutation happens under one mutex.
type Hub struct {
	mu sync.RWMutex

	// identity -> set of clients joined to that room
	rooms map[uuid.UUID]map[*Client]struct{}

	// client -> set of identities it joined; also the liveness record:
	// a client absent from this map has been unregistered.
	members map[*Client]map[uuid.UUID]struct{}

	// Unique per process, used to skip our own Redis publishes.
	instanceId string

	// Optional Redis connection for cross-instance fan-out.
	rdb *redis.Client

	presence *memory.PresenceRepository
	logger   logger.ILogger
}

const redisChannel = "chat_events"

type redisEnvelope struct {
	Origin   string          `json:"origin"`
	TargetId string          `json:"target_id"`
	Message  json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, presence *memory.PresenceRepository, log logger.ILogger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		members:    make(map[*Client]map[uuid.UUID]struct{}),
		instanceId: uuid.NewString(),
		rdb:        rdb,
		presence:   presence,
		logger:     log,
	}
}

// Run starts the cross-instance subscriber when Redis is configured. It
// returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}
	go h.subscribeToRedis(ctx)
}

// Register tracks a freshly connected client before it joins any room, so
// disconnect cleanup works even for sessions that never join.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[uuid.UUID]struct{})
	}
}

// Join adds the client to the identity's room. Idempotent: joining the same
// room twice leaves a single membership, so broadcasts deliver one copy.
func (h *Hub) Join(identity uuid.UUID, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[uuid.UUID]struct{})
	}
	if _, ok := h.members[c][identity]; ok {
		return
	}
	h.members[c][identity] = struct{}{}

	if _, ok := h.rooms[identity]; !ok {
		h.rooms[identity] = make(map[*Client]struct{})
	}
	h.rooms[identity][c] = struct{}{}

	if h.presence != nil {
		h.presence.Touch(identity)
	}
	h.logger.Info("Hub", "Client joined room", map[string]interface{}{"identity": identity.String()})
}

// Unregister removes the client from every room it joined and closes its
// send channel. Safe to call more than once; only the first call acts.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unregisterLocked(c)
}

func (h *Hub) unregisterLocked(c *Client) {
	identities, ok := h.members[c]
	if !ok {
		return
	}
	delete(h.members, c)
	close(c.send)

	for identity := range identities {
		room := h.rooms[identity]
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, identity)
			if h.presence != nil {
				h.presence.Offline(identity)
			}
		}
	}
}

// EmitTo sends one frame to a single session. The membership check and the
// send happen under the hub lock; only unregisterLocked closes the send
// channel, and it runs under the write lock, so the send cannot land on a
// closed channel when a concurrent broadcast drops this client.
func (h *Hub) EmitTo(c *Client, event string, payload interface{}) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal emit", map[string]interface{}{"error": err.Error(), "event": event})
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.members[c]; !ok {
		// Already unregistered; the session is gone.
		return
	}
	select {
	case c.send <- data:
	default:
		// Buffer full; the next broadcast tears the session down.
	}
}

// RefreshPresence re-marks every identity the client joined as online. The
// write pump calls this on its ping tick so idle sessions outlive the
// presence TTL.
func (h *Hub) RefreshPresence(c *Client) {
	if h.presence == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for identity := range h.members[c] {
		h.presence.Touch(identity)
	}
}

// Identities returns the rooms the client currently belongs to.
func (h *Hub) Identities(c *Client) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(h.members[c]))
	for identity := range h.members[c] {
		ids = append(ids, identity)
	}
	return ids
}

// RoomSize reports how many live sessions are joined under an identity.
func (h *Hub) RoomSize(identity uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[identity])
}

// Broadcast delivers {event, payload} to every session in the identity's
// room. An empty room is a silent no-op: the recipient is simply offline.
func (h *Hub) Broadcast(identity uuid.UUID, event string, payload interface{}) {
	data, err := marshalEnvelope(event, payload)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal broadcast", map[string]interface{}{"error": err.Error(), "event": event})
		return
	}

	h.broadcastLocal(identity, data)

	if h.rdb != nil {
		env := redisEnvelope{
			Origin:   h.instanceId,
			TargetId: identity.String(),
			Message:  data,
		}
		jsonEnv, err := json.Marshal(env)
		if err != nil {
			h.logger.Error("Hub", "Failed to marshal Redis envelope", map[string]interface{}{"error": err.Error(), "event": event})
			return
		}
		if err := h.rdb.Publish(context.Background(), redisChannel, jsonEnv).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) broadcastLocal(identity uuid.UUID, data []byte) {
	h.mu.RLock()
	var dead []*Client
	for c := range h.rooms[identity] {
		select {
		case c.send <- data:
		default:
			// Slow consumer: drop the session rather than block the room.
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	if len(dead) > 0 {
		h.mu.Lock()
		for _, c := range dead {
			h.logger.Warn("Hub", "Client send buffer full, dropping session", map[string]interface{}{"identity": identity.String()})
			h.unregisterLocked(c)
		}
		h.mu.Unlock()
	}
}

// subscribeToRedis delivers broadcasts published by other instances to local
// rooms. Messages originating from this instance are skipped; the local
// delivery already happened in Broadcast.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env redisEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn("Hub", "Malformed Redis payload", map[string]interface{}{"error": err.Error()})
				continue
			}
			if env.Origin == h.instanceId {
				continue
			}
			target, err := uuid.Parse(env.TargetId)
			if err != nil {
				continue
			}
			h.broadcastLocal(target, env.Message)
		}
	}
}

func marshalEnvelope(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(dto.Envelope{Event: event, Data: data})
}
