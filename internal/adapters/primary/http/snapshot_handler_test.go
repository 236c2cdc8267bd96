package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/kk0826-ai/adopstktstracker/internal/adapters/primary/http/middleware"
	"github.com/kk0826-ai/adopstktstracker/internal/core/domain"
	apperrors "github.com/kk0826-ai/adopstktstracker/internal/core/errors"
	"github.com/kk0826-ai/adopstktstracker/internal/core/mocks"
)

func newSnapshotRouter(provider *mocks.MockSnapshotProvider) *chi.Mux {
	logger := testLogger()
	handler := NewSnapshotHandler(provider, "TKTS", "2026-02-01", NewErrorHandler(logger), logger)

	router := chi.NewRouter()
	router.Use(mw.RequestID)
	router.Route("/snapshot", handler.RegisterRoutes)
	return router
}

func TestSnapshotHandler_GetSnapshot(t *testing.T) {
	provider := mocks.NewMockSnapshotProvider()
	provider.On("Snapshot", mock.Anything).Return(reportSnapshot(), nil)

	router := newSnapshotRouter(provider)

	req := httptest.NewRequest(stdhttp.MethodGet, "/snapshot", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response SnapshotDTO
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Equal(t, 3, response.TicketCount)
	assert.Equal(t, "2026-03-01T12:00:00Z", response.FetchedAt)
	assert.Equal(t, "TKTS", response.ProjectKey)
	assert.Equal(t, "2026-02-01", response.SinceDate)

	provider.AssertNotCalled(t, "Refresh")
}

func TestSnapshotHandler_Refresh(t *testing.T) {
	t.Run("forces a fresh fetch", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("Refresh", mock.Anything).Return(reportSnapshot(), nil)

		router := newSnapshotRouter(provider)

		req := httptest.NewRequest(stdhttp.MethodPost, "/snapshot/refresh", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response SnapshotDTO
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, 3, response.TicketCount)

		provider.AssertCalled(t, "Refresh", mock.Anything)
		provider.AssertNotCalled(t, "Snapshot")
	})

	t.Run("tracker failure maps to bad gateway", func(t *testing.T) {
		provider := mocks.NewMockSnapshotProvider()
		provider.On("Refresh", mock.Anything).Return(domain.Snapshot{}, apperrors.ErrTrackerUnavailable)

		router := newSnapshotRouter(provider)

		req := httptest.NewRequest(stdhttp.MethodPost, "/snapshot/refresh", nil)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)

		require.Equal(t, stdhttp.StatusBadGateway, recorder.Code)
	})
}
