package assistant

import (
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"bookhub/internal/metrics"
	"bookhub/pkg/models"
)

const writeWait = 10 * time.Second

// Event types sent over the chat websocket.
const (
	EventReply  = "reply"
	EventNotice = "notice"
	EventError  = "error"
)

// Event is one server-to-client websocket frame.
type Event struct {
	Type  string               `json:"type"`
	Reply *models.ChatResponse `json:"reply,omitempty"`
	Text  string               `json:"text,omitempty"`
	At    time.Time            `json:"at"`
}

// client serializes writes to one connection; gorilla allows a single
// concurrent writer.
type client struct {
	conn *websocket.Conn
	user string
	mu   sync.Mutex
}

func (c *client) send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *client) sendEvent(ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return c.send(payload)
}

// Hub tracks open chat connections so server-wide notices, such as a
// catalog reload, reach every client.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) join(ws *websocket.Conn, user string) *client {
	c := &client{conn: ws, user: user}
	h.mu.Lock()
	h.clients[ws] = c
	h.mu.Unlock()
	metrics.TrackWSConnection(true)
	return c
}

func (h *Hub) leave(ws *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[ws]
	delete(h.clients, ws)
	h.mu.Unlock()
	_ = ws.Close()
	if ok {
		metrics.TrackWSConnection(false)
	}
}

// Len returns the number of open connections.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends ev to every client and drops the ones that fail.
func (h *Hub) Broadcast(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(payload); err != nil {
			h.leave(c.conn)
		}
	}
}
