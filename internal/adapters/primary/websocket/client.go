package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Default time allowed to read the next pong message from the peer.
	defaultPongWait = 60 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ClientConfig holds the keep-alive timings for a connection. Zero values
// fall back to defaults; PingInterval must be less than PongWait.
type ClientConfig struct {
	PingInterval time.Duration
	PongWait     time.Duration
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound events.
	Send chan Event

	// Connection ID for this client.
	ID uuid.UUID

	pingInterval time.Duration
	pongWait     time.Duration

	// mu guards closed; Send is never written after closed is set
	mu     sync.Mutex
	closed bool

	// logger for this client
	logger *slog.Logger
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, cfg ClientConfig, logger *slog.Logger) *Client {
	pongWait := cfg.PongWait
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}

	pingInterval := cfg.PingInterval
	if pingInterval <= 0 || pingInterval >= pongWait {
		pingInterval = (pongWait * 9) / 10
	}

	id := uuid.New()
	return &Client{
		Hub:          hub,
		Conn:         conn,
		Send:         make(chan Event, 64),
		ID:           id,
		pingInterval: pingInterval,
		pongWait:     pongWait,
		logger:       logger.With("connection_id", id.String()),
	}
}

// CloseSend closes the Send channel exactly once. After it returns, TrySend
// reports false instead of sending.
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// TrySend queues an event without blocking. It reports false when the client
// is closed or its buffer is full.
func (c *Client) TrySend(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
			c.logger.Error("failed to set read deadline in pong handler", "error", err)
		}
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps events from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel. Send close message.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.writeJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// writeJSON writes a JSON message to the websocket connection
func (c *Client) writeJSON(event Event) error {
	w, err := c.Conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(w).Encode(event); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type string `json:"type"`
}

// handleIncomingMessage processes messages received from the client. The
// dashboard is receive-only apart from keep-alives.
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case "PING":
		// Client-side keep-alive, respond with pong
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) sendPong() {
	if !c.TrySend(Event{Type: "PONG"}) {
		c.logger.Debug("dropping pong, client buffer full or closed")
	}
}
