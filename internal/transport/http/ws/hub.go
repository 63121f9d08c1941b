package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/softdepot/backend/internal/infrastructure/logger"
)

type EventType string

const (
	EventTaskCreated   EventType = "task_created"
	EventTaskUpdated   EventType = "task_updated"
	EventInstallDenied EventType = "install_denied"
)

// Event is what the admin dashboard receives whenever a task changes state.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type client struct {
	send chan []byte
}

// Hub fans task-lifecycle events out to connected dashboard clients. Slow
// consumers are dropped rather than allowed to back-pressure the dispatch
// path.
type Hub struct {
	log *logger.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Broadcast queues an event for every connected client. It never blocks.
func (h *Hub) Broadcast(eventType EventType, data interface{}) {
	message, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
	})
	if err != nil {
		h.log.Errorw("ws_event_marshal_failed", "type", eventType, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- message:
		default:
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Handle serves one websocket connection until the peer goes away. Wire it
// with websocket.New(hub.Handle).
func (h *Hub) Handle(conn *websocket.Conn) {
	c := &client{send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Infow("ws_client_connected", "total", total)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain the read side so pings and close frames are processed.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		h.mu.Lock()
		if _, ok := h.clients[c]; ok {
			close(c.send)
			delete(h.clients, c)
		}
		total := len(h.clients)
		h.mu.Unlock()
		h.log.Infow("ws_client_disconnected", "total", total)
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
