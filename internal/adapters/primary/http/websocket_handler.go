package http

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	wsAdapter "github.com/kk0826-ai/adopstktstracker/internal/adapters/primary/websocket"
	"github.com/kk0826-ai/adopstktstracker/internal/config"
)

// WebSocketHandler handles WebSocket connection upgrades for the dashboard
// refresh feed.
type WebSocketHandler struct {
	hub          *wsAdapter.Hub
	upgrader     websocket.Upgrader
	clientConfig wsAdapter.ClientConfig
	logger       *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	hub *wsAdapter.Hub,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		hub: hub,
		clientConfig: wsAdapter.ClientConfig{
			PingInterval: cfg.WebSocket.PingInterval,
			PongWait:     cfg.WebSocket.PongWait,
		},
		logger: logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.Server.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins
		if cfg.IsDevelopment() {
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			if allowed == "*" {
				return true
			}
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"error", err,
		)
		return
	}

	client := wsAdapter.NewClient(h.hub, conn, h.clientConfig, h.logger)

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"connection_id", client.ID,
		"remote_addr", r.RemoteAddr,
	)

	client.Hub.Register <- client

	// Start the I/O pumps in new goroutines
	go client.WritePump()
	go client.ReadPump()
}
