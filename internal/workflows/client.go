package workflows

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"foundry/internal/adapters/config"
	"foundry/internal/metrics"
	"foundry/internal/remote"
	"foundry/pkg/errors"
	"foundry/pkg/logger"
)

// Request describes a workflow trigger. CorrelationID is generated when
// empty so every run can be traced end to end.
type Request struct {
	Action        string
	Input         map[string]interface{}
	CorrelationID string
	Metadata      map[string]interface{}
}

// Response is the decoded workflow run envelope returned by the trigger
// endpoint and by status polls.
type Response struct {
	WorkflowRunID string                 `json:"workflowRunId"`
	Status        Status                 `json:"status"`
	Output        map[string]interface{} `json:"outputData,omitempty"`
	Error         string                 `json:"error,omitempty"`
	StartedAt     string                 `json:"startedAt,omitempty"`
	CompletedAt   string                 `json:"completedAt,omitempty"`
}

// Run is the tracked state of a triggered workflow.
type Run struct {
	Response
	CorrelationID string
	Location      string
	Attempts      int
}

// Client triggers workflow runs over HTTP and polls them to completion.
// Long-running runs respond 202 with a Location header to poll.
type Client struct {
	remote       *remote.Client
	pollInterval time.Duration
	maxWait      time.Duration
	log          *logger.Logger
}

// NewClient builds a workflow client from the app configuration.
func NewClient(cfg config.WorkflowsConfig, opts ...remote.Option) (*Client, error) {
	mode, err := remote.ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}

	rcOpts := opts
	secret := ""
	if mode == remote.AuthStaticKey {
		// Workflow endpoints take a bearer SAS token rather than a key header.
		rcOpts = append(rcOpts, remote.WithTokenProvider(remote.StaticTokenProvider(cfg.SASToken)))
		mode = remote.AuthManagedIdentity
	}

	rc, err := remote.NewConfig(remote.Config{
		EndpointURL: cfg.TriggerURL,
		AuthMode:    mode,
		AuthSecret:  secret,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
	})
	if err != nil {
		return nil, errors.Wrap(err, "workflows client config")
	}

	return &Client{
		remote:       remote.NewClient(rc, rcOpts...),
		pollInterval: cfg.PollInterval,
		maxWait:      cfg.MaxWait,
		log:          logger.Get().With("component", "workflows_client"),
	}, nil
}

// Trigger starts a workflow run and returns its initial state. A 202
// response carries a poll URL in Run.Location.
func (c *Client) Trigger(ctx context.Context, req Request) (*Run, error) {
	if req.Action == "" {
		return nil, errors.NewValidationError("action", "action is required", nil)
	}

	correlationID := req.CorrelationID
	if correlationID == "" {
		correlationID = uuid.New().String()
	}

	payload := map[string]interface{}{
		"action":        req.Action,
		"inputData":     req.Input,
		"correlationId": correlationID,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	c.log.Infow("Triggering workflow", "action", req.Action, "correlation_id", correlationID)

	result := c.remote.CallRoute(ctx, http.MethodPost, "", payload)

	status := "success"
	if !result.OK() {
		status = string(result.ErrorKind)
	}
	metrics.RemoteCalls.WithLabelValues("workflows", status).Inc()

	if !result.OK() {
		return nil, resultError(result)
	}

	run := &Run{
		Response:      decodeResponse(result.Output),
		CorrelationID: correlationID,
		Location:      result.Location,
		Attempts:      result.Attempts,
	}
	return run, nil
}

// Wait polls a run until it reaches a terminal status or the wait budget is
// exhausted. Runs without a poll URL are returned as-is.
func (c *Client) Wait(ctx context.Context, run *Run) (*Run, error) {
	if run.Status.IsTerminal() || run.Location == "" {
		return run, nil
	}

	deadline := time.Now().Add(c.maxWait)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return run, errors.Wrap(errors.ErrCancelled, "workflow wait")
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return run, errors.Wrapf(errors.ErrWorkflowTimeout, "run %s did not complete within %s", run.WorkflowRunID, c.maxWait)
		}

		result := c.remote.GetURL(ctx, run.Location)
		if !result.OK() {
			if result.ErrorKind == remote.ErrorCancelled {
				return run, errors.Wrap(errors.ErrCancelled, "workflow wait")
			}
			c.log.Warnw("Workflow poll failed", "run_id", run.WorkflowRunID, "error", result.ErrorMessage)
			continue
		}

		run.Response = decodeResponse(result.Output)
		if loc := result.Location; loc != "" {
			run.Location = loc
		}

		if run.Status.IsTerminal() {
			return run, nil
		}
	}
}

// TriggerAndWait starts a run and blocks until it finishes. A failed or
// cancelled terminal state is reported as an error alongside the run.
func (c *Client) TriggerAndWait(ctx context.Context, req Request) (*Run, error) {
	start := time.Now()

	run, err := c.Trigger(ctx, req)
	if err != nil {
		metrics.RecordWorkflowRun(req.Action, "trigger_error", time.Since(start))
		return nil, err
	}

	run, err = c.Wait(ctx, run)
	if err != nil {
		metrics.RecordWorkflowRun(req.Action, "wait_error", time.Since(start))
		return run, err
	}

	metrics.RecordWorkflowRun(req.Action, string(run.Status), time.Since(start))

	switch run.Status {
	case StatusFailed:
		return run, errors.Wrapf(errors.ErrWorkflowFailed, "run %s: %s", run.WorkflowRunID, run.Error)
	case StatusCancelled:
		return run, errors.Wrapf(errors.ErrCancelled, "run %s was cancelled remotely", run.WorkflowRunID)
	}
	return run, nil
}

func decodeResponse(output map[string]interface{}) Response {
	resp := Response{Status: StatusPending}

	if v, ok := output["workflowRunId"].(string); ok {
		resp.WorkflowRunID = v
	}
	if v, ok := output["status"].(string); ok {
		resp.Status = ParseStatus(v)
	}
	if v, ok := output["outputData"].(map[string]interface{}); ok {
		resp.Output = v
	}
	if v, ok := output["error"].(string); ok {
		resp.Error = v
	}
	if v, ok := output["startedAt"].(string); ok {
		resp.StartedAt = v
	}
	if v, ok := output["completedAt"].(string); ok {
		resp.CompletedAt = v
	}
	return resp
}

func resultError(result remote.Result) error {
	switch result.ErrorKind {
	case remote.ErrorTimeout:
		return errors.Wrap(errors.ErrTimeout, result.ErrorMessage)
	case remote.ErrorCancelled:
		return errors.Wrap(errors.ErrCancelled, result.ErrorMessage)
	case remote.ErrorCredential:
		return errors.Wrap(errors.ErrCredential, result.ErrorMessage)
	case remote.ErrorClient:
		return errors.Wrap(errors.ErrRemoteClient, result.ErrorMessage)
	case remote.ErrorServer, remote.ErrorNetwork:
		return errors.Wrap(errors.ErrRemoteServer, result.ErrorMessage)
	default:
		return errors.Wrap(errors.ErrInternal, result.ErrorMessage)
	}
}
