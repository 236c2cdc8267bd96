package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// CategoryRowDTO is one row of the breakdown table.
type CategoryRowDTO struct {
	Category      string  `json:"category"`
	TeamTotal     int     `json:"teamTotal"`
	UserCompleted int     `json:"userCompleted"`
	SharePercent  float64 `json:"sharePercent"`
	ShareDisplay  string  `json:"shareDisplay"`
}

// ChartDTO carries the two chart series: the actual share bar and the fixed
// goal reference line. The domain is always [0,100].
type ChartDTO struct {
	Value  float64    `json:"value"`
	Goal   float64    `json:"goal"`
	Domain [2]float64 `json:"domain"`
}

// ReportDTO is the full dashboard payload for one selected assignee. When no
// tickets exist for the reporting period, Empty is true, Message carries the
// empty-state text and every other field is omitted.
type ReportDTO struct {
	Empty           bool             `json:"empty"`
	Message         string           `json:"message,omitempty"`
	Assignee        string           `json:"assignee,omitempty"`
	PrimaryCategory string           `json:"primaryCategory,omitempty"`
	HeadlinePercent float64          `json:"headlinePercent"`
	HeadlineDisplay string           `json:"headlineDisplay,omitempty"`
	TeamPool        int              `json:"teamPool"`
	UserCompleted   int              `json:"userCompleted"`
	GoalPercent     float64          `json:"goalPercent"`
	GoalMet         bool             `json:"goalMet"`
	Chart           *ChartDTO        `json:"chart,omitempty"`
	Categories      []CategoryRowDTO `json:"categories,omitempty"`
}

// ReportHandler handles HTTP requests for the share report.
type ReportHandler struct {
	reportService ports.ReportService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(
	reportService ports.ReportService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
	}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/assignees", h.HandleListAssignees)
	r.Get("/report", h.HandleGetReport)
}

// HandleListAssignees handles GET /assignees. The result populates the
// dashboard's team member selector.
func (h *ReportHandler) HandleListAssignees(w http.ResponseWriter, r *http.Request) {
	assignees, err := h.reportService.Assignees(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	if assignees == nil {
		assignees = []string{}
	}

	WriteList(w, assignees)
}

// HandleGetReport handles GET /report?assignee=X. An empty snapshot
// short-circuits to the empty-state payload; no share is computed.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	assignee := r.URL.Query().Get("assignee")
	if assignee == "" {
		h.errorHandler.Handle(w, r, apperrors.ErrAssigneeRequired)
		return
	}

	report, err := h.reportService.ComputeReport(r.Context(), assignee)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoTickets) {
			WriteJSON(w, http.StatusOK, ReportDTO{
				Empty:   true,
				Message: "No tickets found for the current reporting period.",
			})
			return
		}
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, mapReport(report))
}

func mapReport(report *domain.ShareReport) ReportDTO {
	rows := make([]CategoryRowDTO, 0, len(report.Categories))
	for _, c := range report.Categories {
		rows = append(rows, CategoryRowDTO{
			Category:      c.Category,
			TeamTotal:     c.TeamTotal,
			UserCompleted: c.UserCompleted,
			SharePercent:  c.SharePercent,
			ShareDisplay:  formatShare(c.SharePercent),
		})
	}

	return ReportDTO{
		Assignee:        report.Assignee,
		PrimaryCategory: report.Primary.Category,
		HeadlinePercent: report.Primary.SharePercent,
		HeadlineDisplay: formatShare(report.Primary.SharePercent),
		TeamPool:        report.Primary.TeamTotal,
		UserCompleted:   report.Primary.UserCompleted,
		GoalPercent:     report.GoalPercent,
		GoalMet:         report.GoalMet(),
		Chart: &ChartDTO{
			Value:  report.Primary.SharePercent,
			Goal:   report.GoalPercent,
			Domain: [2]float64{0, 100},
		},
		Categories: rows,
	}
}

// formatShare renders a share percentage with one decimal place, e.g. "50.0%".
func formatShare(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}
