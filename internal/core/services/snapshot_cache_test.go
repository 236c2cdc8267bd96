package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/mocks"
	"github.com/kk0826-ai/adopstktstracker/internal/core/services"
)

// fakeClock is a manually advanced time source for cache window tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSnapshotCache_Snapshot(t *testing.T) {
	ctx := context.Background()
	tickets := []domain.Ticket{domain.NewTicket("TKTS-1", "Display", "Alice", "Done")}

	t.Run("second call within window does not refetch", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
		source := mocks.NewMockTicketSource()
		source.On("FetchTickets", ctx).Return(tickets, nil).Once()

		cache := services.NewSnapshotCache(source, time.Hour, discardLogger(), services.WithClock(clock.Now))

		first, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		clock.Advance(59 * time.Minute)

		second, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		source.AssertExpectations(t)
		source.AssertNumberOfCalls(t, "FetchTickets", 1)
	})

	t.Run("expired window triggers a fresh fetch", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
		source := mocks.NewMockTicketSource()
		source.On("FetchTickets", ctx).Return(tickets, nil).Twice()

		cache := services.NewSnapshotCache(source, time.Hour, discardLogger(), services.WithClock(clock.Now))

		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		clock.Advance(61 * time.Minute)

		snapshot, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		assert.Equal(t, clock.Now(), snapshot.FetchedAt)
		source.AssertNumberOfCalls(t, "FetchTickets", 2)
	})

	t.Run("fetch error is not cached", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
		source := mocks.NewMockTicketSource()
		source.On("FetchTickets", ctx).Return(nil, errors.New("boom")).Once()
		source.On("FetchTickets", ctx).Return(tickets, nil).Once()

		cache := services.NewSnapshotCache(source, time.Hour, discardLogger(), services.WithClock(clock.Now))

		_, err := cache.Snapshot(ctx)
		assert.ErrorIs(t, err, apperrors.ErrTrackerUnavailable)

		snapshot, err := cache.Snapshot(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot.Tickets, 1)
		source.AssertNumberOfCalls(t, "FetchTickets", 2)
	})
}

func TestSnapshotCache_Refresh(t *testing.T) {
	ctx := context.Background()
	tickets := []domain.Ticket{domain.NewTicket("TKTS-1", "Display", "Alice", "Done")}

	t.Run("bypasses the validity window", func(t *testing.T) {
		clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
		source := mocks.NewMockTicketSource()
		source.On("FetchTickets", ctx).Return(tickets, nil).Twice()

		cache := services.NewSnapshotCache(source, time.Hour, discardLogger(), services.WithClock(clock.Now))

		_, err := cache.Snapshot(ctx)
		require.NoError(t, err)

		_, err = cache.Refresh(ctx)
		require.NoError(t, err)

		source.AssertNumberOfCalls(t, "FetchTickets", 2)
	})

	t.Run("notifies the broadcaster on every load", func(t *testing.T) {
		source := mocks.NewMockTicketSource()
		source.On("FetchTickets", ctx).Return(tickets, nil)

		broadcaster := mocks.NewMockRefreshBroadcaster()
		broadcaster.On("BroadcastRefresh", mock.AnythingOfType("domain.Snapshot")).Return()

		cache := services.NewSnapshotCache(source, time.Hour, discardLogger(),
			services.WithRefreshBroadcaster(broadcaster))

		_, err := cache.Refresh(ctx)
		require.NoError(t, err)

		broadcaster.AssertCalled(t, "BroadcastRefresh", mock.AnythingOfType("domain.Snapshot"))
	})
}

func TestSnapshotCache_Age(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	source := mocks.NewMockTicketSource()
	source.On("FetchTickets", ctx).Return([]domain.Ticket{}, nil)

	cache := services.NewSnapshotCache(source, time.Hour, discardLogger(), services.WithClock(clock.Now))

	_, ok := cache.Age()
	assert.False(t, ok)

	_, err := cache.Snapshot(ctx)
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)

	age, ok := cache.Age()
	assert.True(t, ok)
	assert.Equal(t, 10*time.Minute, age)
}
