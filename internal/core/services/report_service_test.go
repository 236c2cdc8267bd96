package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/mocks"
	"github.com/kk0826-ai/adopstktstracker/internal/core/services"
)

var testCategories = []string{"Display", "Video", "Pixel", "Bespoke"}

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Tickets: []domain.Ticket{
			domain.NewTicket("TKTS-1", "ANZ - Display", "Alice", "Done"),
			domain.NewTicket("TKTS-2", "UK - Display", "Bob", "Open"),
			domain.NewTicket("TKTS-3", "Video", "Alice", "Closed"),
		},
		FetchedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestComputeShareReport(t *testing.T) {
	t.Run("worked example", func(t *testing.T) {
		report, err := services.ComputeShareReport(testSnapshot(), "Alice", testCategories, 20)

		require.NoError(t, err)
		require.Len(t, report.Categories, 4)

		display := report.Categories[0]
		assert.Equal(t, "Display", display.Category)
		assert.Equal(t, 2, display.TeamTotal)
		assert.Equal(t, 1, display.UserCompleted)
		assert.InDelta(t, 50.0, display.SharePercent, 0.001)

		video := report.Categories[1]
		assert.Equal(t, 1, video.TeamTotal)
		assert.Equal(t, 1, video.UserCompleted)
		assert.InDelta(t, 100.0, video.SharePercent, 0.001)

		pixel := report.Categories[2]
		assert.Equal(t, 0, pixel.TeamTotal)
		assert.Equal(t, 0, pixel.UserCompleted)
		assert.Zero(t, pixel.SharePercent)
	})

	t.Run("primary metrics come from the first category", func(t *testing.T) {
		report, err := services.ComputeShareReport(testSnapshot(), "Alice", testCategories, 20)

		require.NoError(t, err)
		assert.Equal(t, "Display", report.Primary.Category)
		assert.InDelta(t, 50.0, report.Primary.SharePercent, 0.001)
		assert.InDelta(t, 20.0, report.GoalPercent, 0.001)
		assert.True(t, report.GoalMet())
	})

	t.Run("goal not met below threshold", func(t *testing.T) {
		report, err := services.ComputeShareReport(testSnapshot(), "Bob", testCategories, 20)

		require.NoError(t, err)
		// Bob's Display ticket is still open, so nothing is completed.
		assert.Zero(t, report.Primary.UserCompleted)
		assert.False(t, report.GoalMet())
	})

	t.Run("open tickets do not count as completed", func(t *testing.T) {
		report, err := services.ComputeShareReport(testSnapshot(), "Bob", testCategories, 20)

		require.NoError(t, err)
		display := report.Categories[0]
		assert.Equal(t, 2, display.TeamTotal)
		assert.Equal(t, 0, display.UserCompleted)
		assert.Zero(t, display.SharePercent)
	})

	t.Run("unassigned aggregates like any other assignee", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Tickets: []domain.Ticket{
				domain.NewTicket("TKTS-1", "Display", "", "Done"),
				domain.NewTicket("TKTS-2", "Display", "Alice", "Open"),
			},
			FetchedAt: time.Now(),
		}

		report, err := services.ComputeShareReport(snapshot, domain.Unassigned, testCategories, 20)

		require.NoError(t, err)
		display := report.Categories[0]
		assert.Equal(t, 2, display.TeamTotal)
		assert.Equal(t, 1, display.UserCompleted)
		assert.InDelta(t, 50.0, display.SharePercent, 0.001)
	})

	t.Run("overlapping categories count the same ticket twice", func(t *testing.T) {
		snapshot := domain.Snapshot{
			Tickets: []domain.Ticket{
				domain.NewTicket("TKTS-1", "Display Video Hybrid", "Alice", "Done"),
			},
			FetchedAt: time.Now(),
		}

		report, err := services.ComputeShareReport(snapshot, "Alice", testCategories, 20)

		require.NoError(t, err)
		assert.Equal(t, 1, report.Categories[0].TeamTotal)
		assert.Equal(t, 1, report.Categories[1].TeamTotal)
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		snapshot := testSnapshot()

		first, err := services.ComputeShareReport(snapshot, "Alice", testCategories, 20)
		require.NoError(t, err)
		second, err := services.ComputeShareReport(snapshot, "Alice", testCategories, 20)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("shares stay within bounds", func(t *testing.T) {
		report, err := services.ComputeShareReport(testSnapshot(), "Alice", testCategories, 20)

		require.NoError(t, err)
		for _, c := range report.Categories {
			assert.LessOrEqual(t, c.UserCompleted, c.TeamTotal)
			assert.GreaterOrEqual(t, c.SharePercent, 0.0)
			assert.LessOrEqual(t, c.SharePercent, 100.0)
		}
	})

	t.Run("empty snapshot", func(t *testing.T) {
		_, err := services.ComputeShareReport(domain.Snapshot{}, "Alice", testCategories, 20)
		assert.ErrorIs(t, err, apperrors.ErrNoTickets)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		_, err := services.ComputeShareReport(testSnapshot(), "Mallory", testCategories, 20)
		assert.ErrorIs(t, err, apperrors.ErrAssigneeNotFound)
	})

	t.Run("missing assignee argument", func(t *testing.T) {
		_, err := services.ComputeShareReport(testSnapshot(), "", testCategories, 20)
		assert.ErrorIs(t, err, apperrors.ErrAssigneeRequired)
	})
}

func TestReportService_Assignees(t *testing.T) {
	ctx := context.Background()

	provider := mocks.NewMockSnapshotProvider()
	provider.On("Snapshot", ctx).Return(testSnapshot(), nil)

	svc := services.NewReportService(provider, testCategories, 20)

	assignees, err := svc.Assignees(ctx)

	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob"}, assignees)
	provider.AssertExpectations(t)
}

func TestReportService_ComputeReport(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("Snapshot", ctx).Return(testSnapshot(), nil)

		svc := services.NewReportService(provider, testCategories, 20)

		report, err := svc.ComputeReport(ctx, "Alice")

		require.NoError(t, err)
		assert.Equal(t, "Alice", report.Assignee)
		assert.InDelta(t, 50.0, report.Primary.SharePercent, 0.001)
		provider.AssertExpectations(t)
	})

	t.Run("snapshot error is propagated", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("Snapshot", ctx).Return(domain.Snapshot{}, apperrors.ErrTrackerUnavailable)

		svc := services.NewReportService(provider, testCategories, 20)

		_, err := svc.ComputeReport(ctx, "Alice")

		assert.ErrorIs(t, err, apperrors.ErrTrackerUnavailable)
	})
}
