package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/pkg/logger"
)

func okChecker(name string) Checker {
	return CheckerFunc{CheckName: name, Fn: func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: "healthy"}
	}}
}

func failChecker(name string) Checker {
	return CheckerFunc{CheckName: name, Fn: func(ctx context.Context) ComponentHealth {
		return ComponentHealth{Status: "unhealthy", Error: "down"}
	}}
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) HealthStatus {
	t.Helper()
	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return status
}

func TestHandler_Liveness(t *testing.T) {
	h := New(logger.Get(), "foundry", "test")

	rec := httptest.NewRecorder()
	h.HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestHandler_Readiness(t *testing.T) {
	t.Run("all healthy", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test", okChecker("functions"), okChecker("workflows"))

		rec := httptest.NewRecorder()
		h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		status := decodeStatus(t, rec)
		assert.Equal(t, "healthy", status.Status)
		assert.Len(t, status.Checks, 2)
	})

	t.Run("one failing makes not ready", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test", okChecker("functions"), failChecker("workflows"))

		rec := httptest.NewRecorder()
		h.HandleReadiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		status := decodeStatus(t, rec)
		assert.Equal(t, "unhealthy", status.Status)
		assert.Equal(t, "down", status.Checks["workflows"].Error)
	})
}

func TestHandler_Health(t *testing.T) {
	t.Run("partial failure is degraded", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test", okChecker("functions"), failChecker("workflows"))

		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "degraded", decodeStatus(t, rec).Status)
	})

	t.Run("all failing is unhealthy", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test", failChecker("functions"))

		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "unhealthy", decodeStatus(t, rec).Status)
	})

	t.Run("no checkers is healthy", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test")

		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("static checker reflects configuration", func(t *testing.T) {
		h := New(logger.Get(), "foundry", "test",
			StaticChecker{CheckName: "workflows", Configured: false, Detail: "trigger url not set"})

		rec := httptest.NewRecorder()
		h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		status := decodeStatus(t, rec)
		assert.Equal(t, "trigger url not set", status.Checks["workflows"].Error)
	})
}
