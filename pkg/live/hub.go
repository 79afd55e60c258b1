package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// hub fans snapshots out to connected WebSocket clients.
type hub struct {
	logger     *slog.Logger
	sendBuffer int

	mu      sync.Mutex
	clients map[*client]bool
}

type client struct {
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration
	closeOnce    sync.Once
}

func newHub(logger *slog.Logger, sendBuffer int) *hub {
	return &hub{
		logger:     logger,
		sendBuffer: sendBuffer,
		clients:    make(map[*client]bool),
	}
}

func (h *hub) add(conn *websocket.Conn, writeTimeout time.Duration) *client {
	c := &client{
		conn:         conn,
		send:         make(chan []byte, h.sendBuffer),
		writeTimeout: writeTimeout,
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.shutdown()
}

// broadcast queues payload for every client. Clients whose queue is full
// have fallen behind and are dropped rather than blocking the frame.
func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	var slow []*client
	for c := range h.clients {
		if !c.trySend(payload) {
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c)
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow websocket client")
		c.shutdown()
	}
}

// count returns the number of connected clients.
func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]bool)
	h.mu.Unlock()

	for _, c := range clients {
		c.shutdown()
	}
}

// trySend queues payload without blocking; false means the queue is full.
func (c *client) trySend(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writeLoop drains the send queue onto the connection.
func (c *client) writeLoop() {
	defer c.conn.Close()
	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop consumes and discards client messages until the connection
// drops; the feed is one-way.
func (c *client) readLoop() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
