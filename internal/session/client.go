package session

import (
	"sync"

	"github.com/gorilla/websocket"

	"pairpad/internal/models"
)

// Client binds one websocket connection to its connection identity. The id is
// assigned per connection and is not stable across reconnects, which is why
// rejoin is keyed by room id rather than connection id.
type Client struct {
	ID   string
	Conn *websocket.Conn

	mu   sync.Mutex
	hook func(models.Frame)
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{ID: id, Conn: conn}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.Frame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send writes a frame to the connection. Delivery is best-effort: a failed or
// absent connection drops the frame, the peer catches up on its next rejoin.
func (c *Client) Send(frame models.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}
