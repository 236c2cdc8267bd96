package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) Ping(ctx context.Context) error {
	return s.err
}

type stubCache struct {
	age time.Duration
	ok  bool
}

func (s *stubCache) Age() (time.Duration, bool) {
	return s.age, s.ok
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := NewHealthHandler(&stubChecker{}, &stubCache{}, "test")

	req := httptest.NewRequest(stdhttp.MethodGet, "/health/live", nil)
	recorder := httptest.NewRecorder()
	handler.HandleLiveness(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
}

func TestHealthHandler_Readiness(t *testing.T) {
	t.Run("tracker reachable", func(t *testing.T) {
		handler := NewHealthHandler(&stubChecker{}, &stubCache{}, "test")

		req := httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil)
		recorder := httptest.NewRecorder()
		handler.HandleReadiness(recorder, req)

		require.Equal(t, stdhttp.StatusOK, recorder.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "healthy", response.Checks["tracker"].Status)
	})

	t.Run("tracker unreachable", func(t *testing.T) {
		handler := NewHealthHandler(&stubChecker{err: errors.New("connection refused")}, &stubCache{}, "test")

		req := httptest.NewRequest(stdhttp.MethodGet, "/health/ready", nil)
		recorder := httptest.NewRecorder()
		handler.HandleReadiness(recorder, req)

		require.Equal(t, stdhttp.StatusServiceUnavailable, recorder.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
		assert.Equal(t, "unhealthy", response.Status)
	})
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(&stubChecker{}, &stubCache{age: 10 * time.Minute, ok: true}, "1.2.3")

	req := httptest.NewRequest(stdhttp.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	handler.HandleHealth(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response struct {
		HealthResponse
		Goroutines int `json:"goroutines"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Equal(t, "1.2.3", response.Version)
	assert.Contains(t, response.Checks["snapshot_cache"].Message, "10m")
	assert.Positive(t, response.Goroutines)
}
