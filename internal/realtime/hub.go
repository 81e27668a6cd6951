package realtime

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// Hub tracks live websocket connections per user and delivers pushes
// to the channel "user:{id}". Delivery is best effort: a connection
// that fails a write is dropped, and pushing to a user with no open
// connections is not an error.
type Hub struct {
	mu    sync.RWMutex
	conns map[int][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int][]*websocket.Conn)}
}

// Register attaches a connection to a user's channel.
func (h *Hub) Register(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = append(h.conns[userID], conn)
}

// Unregister detaches and closes a connection.
func (h *Hub) Unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	remaining := h.conns[userID][:0]
	for _, c := range h.conns[userID] {
		if c != conn {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = remaining
	}
	conn.Close()
}

type envelope struct {
	Channel string      `json:"channel"`
	Payload interface{} `json:"payload"`
}

// Push sends payload to every open connection of the user. Failed
// connections are dropped. The hub lock serializes writers on each
// connection, which gorilla requires. Implements the engine's Pusher.
func (h *Hub) Push(userID int, payload any) error {
	msg, err := json.Marshal(envelope{
		Channel: fmt.Sprintf("user:%d", userID),
		Payload: payload,
	})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	alive := h.conns[userID][:0]
	for _, conn := range h.conns[userID] {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	if len(alive) == 0 {
		delete(h.conns, userID)
	} else {
		h.conns[userID] = alive
	}
	return nil
}

// Connected reports how many connections a user has open.
func (h *Hub) Connected(userID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}
