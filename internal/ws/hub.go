// Package ws fans game events out to connected websocket clients.
// Clients join with a role (red, blue, audience, gm); role-scoped
// events only reach matching clients, the gm sees everything.
package ws

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pewpewlabs/pewpew-tabletop/internal/models"
)

// sendTimeout bounds how long a broadcast waits on one slow client
// before skipping it.
const sendTimeout = time.Second

// Hub tracks connected clients and broadcasts events to them. It
// satisfies the engine's Publisher interface.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	log     zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		log:     log,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	h.log.Debug().Str("role", c.role).Int("clients", len(h.clients)).Msg("ws client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.done)
	h.log.Debug().Str("role", c.role).Int("clients", len(h.clients)).Msg("ws client disconnected")
}

// Publish broadcasts an event to every connected client
func (h *Hub) Publish(ev models.Event) {
	h.broadcast(ev, nil)
}

// PublishToRoles broadcasts an event to clients with one of the given
// roles. GM clients always receive role-scoped events.
func (h *Hub) PublishToRoles(roles []string, ev models.Event) {
	allowed := make(map[string]bool, len(roles)+1)
	for _, r := range roles {
		allowed[r] = true
	}
	allowed[RoleGM] = true
	h.broadcast(ev, allowed)
}

// broadcast snapshots the client set under the read lock, then sends
// without holding it so one stuck connection cannot stall the hub. A
// client that disconnects mid-broadcast is skipped via its done signal.
func (h *Hub) broadcast(ev models.Event, allowed map[string]bool) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if allowed == nil || allowed[c.role] {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- ev:
		case <-c.done:
		case <-time.After(sendTimeout):
			h.log.Warn().Str("role", c.role).Str("kind", string(ev.Kind)).
				Msg("ws send timeout, dropping event for client")
		}
	}
}

// ClientCount reports the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
