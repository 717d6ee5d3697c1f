package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"strategist/internal/domain/signal"
	"strategist/pkg/errors"
	"strategist/pkg/logger"
)

type stubProber struct {
	results map[signal.AgentKey]error
}

func (s *stubProber) CheckAgents(ctx context.Context) map[signal.AgentKey]error {
	return s.results
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status
}

func TestHandleLiveness(t *testing.T) {
	h := New(logger.Get(), &stubProber{}, "strategist", "test")

	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReadiness_AllReachable(t *testing.T) {
	h := New(logger.Get(), &stubProber{results: map[signal.AgentKey]error{
		signal.AgentFundamental: nil,
		signal.AgentTechnical:   nil,
	}}, "strategist", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	status := decode(t, rec)
	assert.Equal(t, "healthy", status.Status)
	assert.Len(t, status.Checks, 2)
}

func TestHandleReadiness_AgentDown(t *testing.T) {
	h := New(logger.Get(), &stubProber{results: map[signal.AgentKey]error{
		signal.AgentFundamental: nil,
		signal.AgentTechnical:   errors.New("connection refused"),
	}}, "strategist", "test")

	rec := httptest.NewRecorder()
	h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	status := decode(t, rec)
	assert.Equal(t, "unhealthy", status.Status)
	assert.Equal(t, "connection refused", status.Checks["technical"].Error)
}

func TestHandleHealth_PartialOutageIsDegraded(t *testing.T) {
	h := New(logger.Get(), &stubProber{results: map[signal.AgentKey]error{
		signal.AgentFundamental: nil,
		signal.AgentTechnical:   errors.New("timeout"),
	}}, "strategist", "test")

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", decode(t, rec).Status)
}

func TestHandleHealth_TotalOutageIsUnhealthy(t *testing.T) {
	h := New(logger.Get(), &stubProber{results: map[signal.AgentKey]error{
		signal.AgentFundamental: errors.New("timeout"),
	}}, "strategist", "test")

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", decode(t, rec).Status)
}
