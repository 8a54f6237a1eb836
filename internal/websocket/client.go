package websocket

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one live transport session. It carries no identity of its own;
// identities are attached by join events through the hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Buffered channel of outbound frames, closed by the hub on unregister.
	send chan []byte
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Emit sends an event to this session only. Used for errorMessage and
// messageHistory replies, which never fan out. Routed through the hub so
// the send cannot race a disconnect closing the channel.
func (c *Client) Emit(event string, payload interface{}) {
	c.hub.EmitTo(c, event, payload)
}

// readPump reads frames and hands them to the gateway. Requests from one
// session are handled in arrival order; the session is torn down and removed
// from every room when the transport drops.
func (c *Client) readPump(ctx context.Context, gateway *Gateway) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				gateway.logger.Warn("Client", "Unexpected close", map[string]interface{}{"error": err.Error()})
			}
			break
		}
		gateway.Handle(ctx, c, raw)
	}
}

// writePump drains the send channel onto the connection and keeps the
// transport alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.hub.RefreshPresence(c)
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeClient runs the pumps for a freshly upgraded connection. It blocks
// until the connection closes.
func ServeClient(ctx context.Context, hub *Hub, gateway *Gateway, conn *websocket.Conn) {
	client := newClient(hub, conn)
	hub.Register(client)

	go client.writePump()
	client.readPump(ctx, gateway)
}
