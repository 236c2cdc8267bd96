package websocket

import (
	"log/slog"
	"sync"
	"time"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// Event is the message pushed to connected dashboards. The frontend re-runs
// its report query when it receives a snapshot.refreshed event.
type Event struct {
	Type        string    `json:"type"`
	TicketCount int       `json:"ticketCount,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt,omitzero"`
}

// EventSnapshotRefreshed is sent whenever a fresh snapshot replaces the
// cached one.
const EventSnapshotRefreshed = "snapshot.refreshed"

// Hub maintains the set of active Clients and broadcasts refresh events to
// them. Every connected dashboard receives every event; there is no
// per-topic routing.
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for events
	broadcast chan Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients map
	mu sync.RWMutex

	// logger for the hub
	logger *slog.Logger
}

// Ensure Hub implements the RefreshBroadcaster interface.
var _ ports.RefreshBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// BroadcastRefresh queues a snapshot.refreshed event for all connected
// clients. This method implements the ports.RefreshBroadcaster interface.
func (h *Hub) BroadcastRefresh(snapshot domain.Snapshot) {
	event := Event{
		Type:        EventSnapshotRefreshed,
		TicketCount: len(snapshot.Tickets),
		FetchedAt:   snapshot.FetchedAt,
	}

	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
		)
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"connection_id", client.ID,
		"total_connections", len(h.clients),
	)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.CloseSend()
	}

	h.logger.Info("client unregistered",
		"connection_id", client.ID,
		"total_connections", len(h.clients),
	)
}

// broadcastEvent sends an event to all connected clients
func (h *Hub) broadcastEvent(event Event) {
	h.mu.RLock()
	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"client_count", len(clients),
	)

	for _, client := range clients {
		if client.TrySend(event) {
			continue
		}

		// Slow or dead client. Drop it directly rather than going through
		// the Unregister channel, which this goroutine drains.
		h.logger.Warn("client send buffer full, unregistering",
			"connection_id", client.ID,
		)
		h.unregisterClient(client)
	}
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
