package chatws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Hub maps a chat id to its currently-open connections. Fan-out is
// best-effort and synchronous: a failed write drops only that connection's
// delivery, the socket is pruned when its own read loop ends.
type Hub struct {
	mu    sync.Mutex
	rooms map[uint][]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint][]*websocket.Conn)}
}

func (h *Hub) Join(chatID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms[chatID] = append(h.rooms[chatID], conn)
}

func (h *Hub) Leave(chatID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.rooms[chatID]
	for i, c := range conns {
		if c == conn {
			h.rooms[chatID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.rooms[chatID]) == 0 {
		delete(h.rooms, chatID)
	}
}

// Broadcast pushes v as JSON to every connection in the chat room,
// including the sender.
func (h *Hub) Broadcast(chatID uint, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.rooms[chatID] {
		// write errors are left to the connection's read loop to notice
		_ = conn.WriteJSON(v)
	}
}

// RoomSize reports how many connections are open for a chat.
func (h *Hub) RoomSize(chatID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[chatID])
}
