package workflows

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foundry/internal/adapters/config"
	"foundry/pkg/errors"
)

func testClient(t *testing.T, url string, maxWait time.Duration) *Client {
	t.Helper()

	client, err := NewClient(config.WorkflowsConfig{
		TriggerURL:   url,
		SASToken:     "sas-token",
		AuthMode:     "static_key",
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		PollInterval: 20 * time.Millisecond,
		MaxWait:      maxWait,
	})
	require.NoError(t, err)
	return client
}

func writeRun(w http.ResponseWriter, code int, status, runID string, extra map[string]interface{}) {
	payload := map[string]interface{}{
		"workflowRunId": runID,
		"status":        status,
	}
	for k, v := range extra {
		payload[k] = v
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, StatusSucceeded, ParseStatus("Succeeded"))
	assert.Equal(t, StatusPending, ParseStatus("weird"))
	assert.True(t, StatusFailed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusRunning.IsTerminal())
	assert.True(t, StatusPending.IsRunning())
}

func TestClient_Trigger(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		writeRun(w, http.StatusOK, "succeeded", "run-1", map[string]interface{}{
			"outputData": map[string]interface{}{"total": 42.0},
		})
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, time.Second)

	run, err := client.Trigger(context.Background(), Request{
		Action: "reconcile",
		Input:  map[string]interface{}{"day": "2026-08-25"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sas-token", gotAuth)
	assert.Equal(t, "reconcile", gotPayload["action"])
	assert.Equal(t, map[string]interface{}{"day": "2026-08-25"}, gotPayload["inputData"])
	assert.NotEmpty(t, gotPayload["correlationId"])
	assert.NotEmpty(t, gotPayload["timestamp"])

	assert.Equal(t, "run-1", run.WorkflowRunID)
	assert.Equal(t, StatusSucceeded, run.Status)
	assert.Equal(t, 42.0, run.Output["total"])
	assert.NotEmpty(t, run.CorrelationID)
}

func TestClient_TriggerRequiresAction(t *testing.T) {
	client := testClient(t, "https://wf.example.com", time.Second)

	_, err := client.Trigger(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArguments))
}

func TestClient_TriggerAndWait(t *testing.T) {
	t.Run("polls accepted run to completion", func(t *testing.T) {
		var polls int32

		mux := http.NewServeMux()
		var srv *httptest.Server

		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Location", srv.URL+"/runs/run-2")
			writeRun(w, http.StatusAccepted, "running", "run-2", nil)
		})
		mux.HandleFunc("/runs/run-2", func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&polls, 1) < 2 {
				writeRun(w, http.StatusOK, "running", "run-2", nil)
				return
			}
			writeRun(w, http.StatusOK, "succeeded", "run-2", map[string]interface{}{
				"outputData":  map[string]interface{}{"rows": 10.0},
				"completedAt": "2026-08-26T09:00:00Z",
			})
		})

		srv = httptest.NewServer(mux)
		defer srv.Close()

		client := testClient(t, srv.URL, 2*time.Second)

		run, err := client.TriggerAndWait(context.Background(), Request{Action: "export"})
		require.NoError(t, err)
		assert.Equal(t, StatusSucceeded, run.Status)
		assert.Equal(t, 10.0, run.Output["rows"])
		assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(2))
	})

	t.Run("failed run is an error with output", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeRun(w, http.StatusOK, "failed", "run-3", map[string]interface{}{
				"error": "downstream rejected the batch",
			})
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, time.Second)

		run, err := client.TriggerAndWait(context.Background(), Request{Action: "export"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrWorkflowFailed))
		require.NotNil(t, run)
		assert.Equal(t, "downstream rejected the batch", run.Error)
	})

	t.Run("wait budget exhaustion", func(t *testing.T) {
		mux := http.NewServeMux()
		var srv *httptest.Server

		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", srv.URL+"/runs/run-4")
			writeRun(w, http.StatusAccepted, "running", "run-4", nil)
		})
		mux.HandleFunc("/runs/run-4", func(w http.ResponseWriter, r *http.Request) {
			writeRun(w, http.StatusOK, "running", "run-4", nil)
		})

		srv = httptest.NewServer(mux)
		defer srv.Close()

		client := testClient(t, srv.URL, 100*time.Millisecond)

		_, err := client.TriggerAndWait(context.Background(), Request{Action: "export"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrWorkflowTimeout))
	})

	t.Run("caller cancellation stops waiting", func(t *testing.T) {
		mux := http.NewServeMux()
		var srv *httptest.Server

		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", srv.URL+"/runs/run-5")
			writeRun(w, http.StatusAccepted, "running", "run-5", nil)
		})
		mux.HandleFunc("/runs/run-5", func(w http.ResponseWriter, r *http.Request) {
			writeRun(w, http.StatusOK, "running", "run-5", nil)
		})

		srv = httptest.NewServer(mux)
		defer srv.Close()

		client := testClient(t, srv.URL, 10*time.Second)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		_, err := client.TriggerAndWait(ctx, Request{Action: "export"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCancelled))
	})
}
