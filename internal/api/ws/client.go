package ws

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Client wraps one websocket connection. All writes happen on writePump's
// goroutine; the read loop lives in the handler.
type Client struct {
	conn   *websocket.Conn
	userID uint

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(conn *websocket.Conn, userID uint) *Client {
	return &Client{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: userID,
	}
}

// Send queues a frame for this client only. Returns false when the buffer
// is full or the client has been closed. The mutex makes Send safe against
// a concurrent close from the hub dropping this client.
func (c *Client) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// close shuts the send channel exactly once. Pending frames still drain
// through WritePump; later Send calls report failure instead of panicking.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// WritePump drains the send channel onto the wire until the channel closes.
func (c *Client) WritePump() {
	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
