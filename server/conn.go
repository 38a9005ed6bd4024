package server

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// userConn is one user's websocket connection
type userConn struct {
	name string
	ws   *websocket.Conn

	// mu guards send and closed; a send on a closed channel panics, so
	// enqueue and close must never race
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func newUserConn(name string, ws *websocket.Conn) *userConn {
	return &userConn{
		name: name,
		ws:   ws,
		send: make(chan []byte, 16),
	}
}

// enqueue queues a message for the write pump, dropping it if the
// connection is backed up or already closed
func (c *userConn) enqueue(msg []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// close shuts down the write pump. Idempotent, and safe to call while
// another goroutine is in enqueue.
func (c *userConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump feeds incoming chat lines to handle until the connection dies
func (c *userConn) readPump(handle func(user, text string)) {
	defer c.ws.Close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		handle(c.name, string(data))
	}
}

// writePump forwards queued messages to the peer and keeps the
// connection alive with pings
func (c *userConn) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
