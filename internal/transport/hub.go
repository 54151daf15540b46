package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"pencil/internal/game"
	"pencil/internal/logger"
)

// Hub tracks the live client of every participant and delivers game
// messages to them. A participant has at most one live client; a newer
// connection replaces the older one.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*Client)}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.id]
	h.clients[c.id] = c
	h.mu.Unlock()

	if old != nil && old != c {
		logger.Infof("[Client %s] Replaced by a newer connection", c.id)
		old.Kill()
	}
}

// Unregister reports whether c was still the participant's live client.
func (h *Hub) Unregister(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.id] != c {
		return false
	}
	delete(h.clients, c.id)
	return true
}

func (h *Hub) Notify(to []string, msg game.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Criticalf("Marshalling %s failed: %v", msg.Type, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range to {
		if c, ok := h.clients[id]; ok {
			c.Send(data)
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) PingAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.Ping()
	}
}

// Run pings every client on each tick until ctx is done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.PingAll()
		}
	}
}

// CloseAll stops every client.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		c.Kill()
	}
}
