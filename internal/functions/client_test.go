package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/internal/adapters/config"
	"foundry/internal/remote"
)

func testClient(t *testing.T, url string) *Client {
	t.Helper()

	client, err := NewClient(config.FunctionsConfig{
		BaseURL:     url,
		FunctionKey: "test-key",
		AuthMode:    "static_key",
		Timeout:     2 * time.Second,
		MaxRetries:  0,
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	t.Run("missing base url", func(t *testing.T) {
		_, err := NewClient(config.FunctionsConfig{
			AuthMode: "static_key",
			Timeout:  time.Second,
		})
		assert.Error(t, err)
	})

	t.Run("unknown auth mode", func(t *testing.T) {
		_, err := NewClient(config.FunctionsConfig{
			BaseURL:  "https://fn.example.com",
			AuthMode: "oauth",
			Timeout:  time.Second,
		})
		assert.Error(t, err)
	})

	t.Run("key without static mode", func(t *testing.T) {
		_, err := NewClient(config.FunctionsConfig{
			BaseURL:     "https://fn.example.com",
			FunctionKey: "secret",
			AuthMode:    "none",
			Timeout:     time.Second,
		})
		assert.Error(t, err)
	})
}

func TestClient_Invoke(t *testing.T) {
	var gotPath, gotMethod, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotKey = r.Header.Get("x-functions-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"quote":"stay curious"}`))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)

	result := client.Invoke(context.Background(), "", "get_quote", map[string]interface{}{"category": "wisdom"})

	require.True(t, result.OK())
	assert.Equal(t, "/api/get_quote", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "stay curious", result.Output["quote"])
}

func TestClient_InvokeFailurePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such function", http.StatusNotFound)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL)
	result := client.Invoke(context.Background(), "", "missing", nil)

	assert.Equal(t, remote.StatusError, result.Status)
	assert.Equal(t, remote.ErrorClient, result.ErrorKind)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestClient_HealthCheck(t *testing.T) {
	t.Run("healthy service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/health_check", r.URL.Path)
			assert.Equal(t, http.MethodGet, r.Method)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"status":       "healthy",
				"service_name": "remote-fns",
				"version":      "1.4.2",
				"details":      map[string]interface{}{"region": "westeurope"},
			})
		}))
		defer srv.Close()

		client := testClient(t, srv.URL)
		health, err := client.HealthCheck(context.Background())

		require.NoError(t, err)
		assert.True(t, health.Healthy())
		assert.Equal(t, "remote-fns", health.ServiceName)
		assert.Equal(t, "1.4.2", health.Version)
		assert.Equal(t, "westeurope", health.Details["region"])
	})

	t.Run("unreachable service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		srv.Close()

		client := testClient(t, srv.URL)
		_, err := client.HealthCheck(context.Background())
		assert.Error(t, err)
	})
}
