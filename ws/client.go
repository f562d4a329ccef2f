package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 128
)

var ErrClientClosed = errors.New("ws: client closed")

// IncomingWSMessage is a client frame, e.g. {"action":"join_chat","chat_id":12}.
type IncomingWSMessage struct {
	Action string `json:"action"`
	ChatID uint   `json:"chat_id,omitempty"`
}

// Client is one websocket session of a user. Writes go through a buffered channel
// drained by writePump; a client that falls behind is disconnected.
type Client struct {
	ID     string
	UserID uint

	conn  *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		close:  make(chan struct{}),
	}
}

// Send enqueues payload without blocking.
func (c *Client) Send(payload []byte) error {
	select {
	case <-c.close:
		return ErrClientClosed
	default:
	}

	select {
	case <-c.close:
		return ErrClientClosed
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("ws: client send buffer exceeded")
	}
}

// Close is safe to call more than once.
func (c *Client) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		if c.conn == nil {
			return
		}
		if frame := closeFrame(code, reason); frame != nil {
			deadline := time.Now().Add(writeWait)
			_ = c.conn.WriteControl(websocket.CloseMessage, frame, deadline)
		}
		_ = c.conn.Close()
	})
}

// closeFrame returns nil for the codes RFC 6455 reserves for local use only.
func closeFrame(code int, reason string) []byte {
	switch code {
	case websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure, websocket.CloseTLSHandshake:
		return nil
	}
	return websocket.FormatCloseMessage(code, reason)
}

// Done is closed once the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.close
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.write(websocket.TextMessage, msg); err != nil {
				// the connection is already broken, no close frame
				c.Close(websocket.CloseAbnormalClosure, "write failed")
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				c.Close(websocket.CloseAbnormalClosure, "ping failed")
				return
			}
		}
	}
}

func (c *Client) write(messageType int, payload []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, payload)
}

// readPump blocks until the peer disconnects, passing each decoded frame to handle.
func (c *Client) readPump(handle func(IncomingWSMessage)) error {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg IncomingWSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		handle(msg)
	}
}
