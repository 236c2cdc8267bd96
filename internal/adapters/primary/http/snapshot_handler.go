package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// SnapshotDTO describes the currently cached snapshot without exposing the
// raw ticket rows.
type SnapshotDTO struct {
	TicketCount int    `json:"ticketCount"`
	FetchedAt   string `json:"fetchedAt"`
	ProjectKey  string `json:"projectKey"`
	SinceDate   string `json:"sinceDate"`
}

// SnapshotHandler handles HTTP requests for snapshot metadata and forced
// refreshes.
type SnapshotHandler struct {
	snapshots    ports.SnapshotProvider
	projectKey   string
	sinceDate    string
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(
	snapshots ports.SnapshotProvider,
	projectKey string,
	sinceDate string,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *SnapshotHandler {
	return &SnapshotHandler{
		snapshots:    snapshots,
		projectKey:   projectKey,
		sinceDate:    sinceDate,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "snapshot"),
	}
}

// RegisterRoutes registers the /snapshot routes.
func (h *SnapshotHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetSnapshot)
	r.Post("/refresh", h.HandleRefresh)
}

// HandleGetSnapshot handles GET /snapshot.
func (h *SnapshotHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, SnapshotDTO{
		TicketCount: len(snapshot.Tickets),
		FetchedAt:   snapshot.FetchedAt.UTC().Format(time.RFC3339),
		ProjectKey:  h.projectKey,
		SinceDate:   h.sinceDate,
	})
}

// HandleRefresh handles POST /snapshot/refresh. It bypasses the cache
// window, fetches a fresh snapshot and broadcasts the refresh to connected
// dashboards.
func (h *SnapshotHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.snapshots.Refresh(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("snapshot refresh forced", "ticket_count", len(snapshot.Tickets))

	WriteJSON(w, http.StatusOK, SnapshotDTO{
		TicketCount: len(snapshot.Tickets),
		FetchedAt:   snapshot.FetchedAt.UTC().Format(time.RFC3339),
		ProjectKey:  h.projectKey,
		SinceDate:   h.sinceDate,
	})
}
