package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
)

// MockTicketSource is a mock implementation of ports.TicketSource
type MockTicketSource struct {
	mock.Mock
}

func NewMockTicketSource() *MockTicketSource {
	return &MockTicketSource{}
}

func (m *MockTicketSource) FetchTickets(ctx context.Context) ([]domain.Ticket, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockTicketSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockSnapshotProvider is a mock implementation of ports.SnapshotProvider
type MockSnapshotProvider struct {
	mock.Mock
}

func NewMockSnapshotProvider() *MockSnapshotProvider {
	return &MockSnapshotProvider{}
}

func (m *MockSnapshotProvider) Snapshot(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotProvider) Refresh(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

// MockRefreshBroadcaster is a mock implementation of ports.RefreshBroadcaster
type MockRefreshBroadcaster struct {
	mock.Mock
}

func NewMockRefreshBroadcaster() *MockRefreshBroadcaster {
	return &MockRefreshBroadcaster{}
}

func (m *MockRefreshBroadcaster) BroadcastRefresh(snapshot domain.Snapshot) {
	m.Called(snapshot)
}
