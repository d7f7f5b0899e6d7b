package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub fans messages out to every connected dashboard client. Writes go
// through each client's buffered send channel; a client that cannot keep up
// is dropped rather than allowed to block the rest.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	log.Printf("ws client connected user_id=%d total=%d", c.userID, h.ClientCount())
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
	log.Printf("ws client disconnected user_id=%d total=%d", c.userID, h.ClientCount())
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a typed JSON frame to every client. Satisfies the
// Notifier interface the services depend on.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame, err := json.Marshal(map[string]interface{}{
		"type": event,
		"data": payload,
	})
	if err != nil {
		log.Printf("ws broadcast marshal error: %v", err)
		return
	}

	h.mu.RLock()
	slow := make([]*Client, 0)
	for c := range h.clients {
		if !c.Send(frame) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("ws client user_id=%d too slow, dropping", c.userID)
		h.Unregister(c)
	}
}
