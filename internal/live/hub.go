// Package live pushes console snapshots to connected clients over
// websocket or Server-Sent Events.
package live

import (
	"encoding/json"
	"sync"

	"ride_console/platform/logger"

	"github.com/google/uuid"
)

// client is one connected subscriber.
type client struct {
	id     string
	frames chan []byte
}

// Hub fans published values out to every subscriber. New subscribers get
// the latest frame first.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	last    []byte
	buffer  int
	closed  bool
	log     *logger.Logger
}

// NewHub creates a hub whose subscribers buffer up to buffer frames.
func NewHub(buffer int, log *logger.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		clients: make(map[string]*client),
		buffer:  buffer,
		log:     log,
	}
}

// Publish encodes v once and offers it to every subscriber. A subscriber
// whose buffer is full misses the frame; the next one supersedes it anyway.
func (h *Hub) Publish(v any) {
	frame, err := json.Marshal(v)
	if err != nil {
		h.log.Error("live: encode frame failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = frame

	for _, c := range h.clients {
		select {
		case c.frames <- frame:
		default:
			h.log.Warn("live: frame buffer full, dropping frame", "client_id", c.id)
		}
	}
}

// Last returns the most recent frame, or nil.
func (h *Hub) Last() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Health reports the feed's subscriber count for the health endpoint.
func (h *Hub) Health() map[string]any {
	return map[string]any{
		"live_clients":  h.Count(),
		"live_snapshot": h.Last() != nil,
	}
}

// subscribe registers a client; the latest frame is queued for it.
func (h *Hub) subscribe() (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}

	c := &client{id: uuid.NewString(), frames: make(chan []byte, h.buffer)}
	if h.last != nil {
		c.frames <- h.last
	}
	h.clients[c.id] = c
	h.log.Debug("live: client connected", "client_id", c.id, "clients", len(h.clients))
	return c, true
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return
	}
	delete(h.clients, c.id)
	close(c.frames)
	h.log.Debug("live: client disconnected", "client_id", c.id, "clients", len(h.clients))
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, c := range h.clients {
		close(c.frames)
		delete(h.clients, id)
	}
}
