package ports

import (
	"context"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
)

// SnapshotProvider defines the port for obtaining the current ticket
// snapshot. Implementations decide whether a call hits the tracker or a
// time-boxed cache; callers never see the difference.
type SnapshotProvider interface {
	// Snapshot returns the current snapshot, fetching from the tracker only
	// when the cached value has expired.
	Snapshot(ctx context.Context) (domain.Snapshot, error)

	// Refresh discards any cached value and fetches a fresh snapshot.
	Refresh(ctx context.Context) (domain.Snapshot, error)
}

// ReportService defines the core business operations for the share report.
type ReportService interface {
	Assignees(ctx context.Context) ([]string, error)
	ComputeReport(ctx context.Context, assignee string) (*domain.ShareReport, error)
}

// RefreshBroadcaster defines the port for pushing snapshot refresh events to
// connected dashboard clients.
type RefreshBroadcaster interface {
	BroadcastRefresh(snapshot domain.Snapshot)
}
