package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/ports"
)

// SnapshotCache memoizes the ticket snapshot for a fixed validity window so
// repeated dashboard interactions do not re-issue the tracker call. The
// cached value is replaced wholesale on expiry; there is no incremental
// update.
type SnapshotCache struct {
	source   ports.TicketSource
	ttl      time.Duration
	now      func() time.Time
	notifier ports.RefreshBroadcaster
	logger   *slog.Logger

	// mu also serializes loads: concurrent callers during a refresh wait for
	// the in-flight fetch and share its result.
	mu        sync.Mutex
	snapshot  domain.Snapshot
	fetchedAt time.Time
	valid     bool
}

var _ ports.SnapshotProvider = (*SnapshotCache)(nil)

// SnapshotCacheOption configures a SnapshotCache.
type SnapshotCacheOption func(*SnapshotCache)

// WithClock overrides the cache's time source. Used by tests to step through
// the validity window.
func WithClock(now func() time.Time) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		c.now = now
	}
}

// WithRefreshBroadcaster attaches a broadcaster notified whenever a fresh
// snapshot replaces the cached one.
func WithRefreshBroadcaster(b ports.RefreshBroadcaster) SnapshotCacheOption {
	return func(c *SnapshotCache) {
		c.notifier = b
	}
}

// NewSnapshotCache creates a snapshot cache over the given ticket source.
func NewSnapshotCache(source ports.TicketSource, ttl time.Duration, logger *slog.Logger, opts ...SnapshotCacheOption) *SnapshotCache {
	c := &SnapshotCache{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With("component", "snapshot_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the cached snapshot while it is still within the validity
// window, otherwise fetches a fresh one from the tracker. A fetch error is
// never cached; the next call retries.
func (c *SnapshotCache) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.snapshot, nil
	}
	return c.loadLocked(ctx)
}

// Refresh discards any cached snapshot and fetches a fresh one.
func (c *SnapshotCache) Refresh(ctx context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked(ctx)
}

// Age returns how old the cached snapshot is, and whether one exists.
func (c *SnapshotCache) Age() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid {
		return 0, false
	}
	return c.now().Sub(c.fetchedAt), true
}

func (c *SnapshotCache) loadLocked(ctx context.Context) (domain.Snapshot, error) {
	tickets, err := c.source.FetchTickets(ctx)
	if err != nil {
		c.logger.Error("snapshot fetch failed", "error", err)
		return domain.Snapshot{}, fmt.Errorf("%w: %v", apperrors.ErrTrackerUnavailable, err)
	}

	c.snapshot = domain.Snapshot{Tickets: tickets, FetchedAt: c.now()}
	c.fetchedAt = c.snapshot.FetchedAt
	c.valid = true

	c.logger.Info("snapshot refreshed",
		"ticket_count", len(tickets),
		"fetched_at", c.fetchedAt,
	)

	if c.notifier != nil {
		c.notifier.BroadcastRefresh(c.snapshot)
	}
	return c.snapshot, nil
}
