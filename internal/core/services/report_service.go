package services

import (
	"context"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// ReportService implements the share calculation over the current snapshot.
type ReportService struct {
	snapshots  ports.SnapshotProvider
	categories []string
	goal       float64
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a report service. categories is the fixed ordered
// list of tracked category labels; the first one is the primary category
// surfaced in the headline metric. goal is the target share percentage used
// for presentation only.
func NewReportService(snapshots ports.SnapshotProvider, categories []string, goal float64) *ReportService {
	return &ReportService{
		snapshots:  snapshots,
		categories: categories,
		goal:       goal,
	}
}

// Assignees returns the sorted distinct assignees in the current snapshot.
func (s *ReportService) Assignees(ctx context.Context) ([]string, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Assignees(), nil
}

// ComputeReport computes the share report for the selected assignee against
// the current snapshot. It returns ErrNoTickets for an empty snapshot and
// ErrAssigneeNotFound when the assignee does not appear in it.
func (s *ReportService) ComputeReport(ctx context.Context, assignee string) (*domain.ShareReport, error) {
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return ComputeShareReport(snapshot, assignee, s.categories, s.goal)
}

// ComputeShareReport is the pure calculation behind the report endpoint:
// identical inputs always yield identical output, and the snapshot is never
// mutated.
func ComputeShareReport(snapshot domain.Snapshot, assignee string, categories []string, goal float64) (*domain.ShareReport, error) {
	if assignee == "" {
		return nil, apperrors.ErrAssigneeRequired
	}
	if snapshot.IsEmpty() {
		return nil, apperrors.ErrNoTickets
	}
	if !snapshot.HasAssignee(assignee) {
		return nil, apperrors.ErrAssigneeNotFound
	}

	summaries := make([]domain.CategorySummary, 0, len(categories))
	for _, category := range categories {
		summaries = append(summaries, summarizeCategory(snapshot, assignee, category))
	}

	report := &domain.ShareReport{
		Assignee:    assignee,
		GoalPercent: goal,
		Categories:  summaries,
	}
	if len(summaries) > 0 {
		report.Primary = summaries[0]
	}
	return report, nil
}

// summarizeCategory counts the category pool and the assignee's completed
// subset within it. An empty pool yields a 0% share rather than a division
// error.
func summarizeCategory(snapshot domain.Snapshot, assignee, category string) domain.CategorySummary {
	summary := domain.CategorySummary{Category: category}
	for _, t := range snapshot.Tickets {
		if !t.MatchesCategory(category) {
			continue
		}
		summary.TeamTotal++
		if t.Assignee == assignee && t.IsClosed {
			summary.UserCompleted++
		}
	}
	if summary.TeamTotal > 0 {
		summary.SharePercent = float64(summary.UserCompleted) / float64(summary.TeamTotal) * 100
	}
	return summary
}
