package tools

import (
	"context"

	"foundry/internal/functions"
	"foundry/internal/remote"
	"foundry/internal/workflows"
	"foundry/pkg/errors"
	"foundry/pkg/logger"
)

// Deps carries the clients available to the built-in tools.
type Deps struct {
	Functions *functions.Client
	Workflows *workflows.Client
	Log       *logger.Logger
}

// RegisterAll registers the built-in remote tools in the registry.
func RegisterAll(registry *Registry, deps Deps) error {
	log := deps.Log
	if log == nil {
		log = logger.Get()
	}
	log = log.With("component", "tool_registration")

	if deps.Functions != nil {
		if err := registry.Register(newHealthCheckTool(deps.Functions)); err != nil {
			return err
		}
		if err := registry.Register(newInvokeFunctionTool(deps.Functions)); err != nil {
			return err
		}
		log.Debug("Registered function tools")
	}

	if deps.Workflows != nil {
		if err := registry.Register(newTriggerWorkflowTool(deps.Workflows)); err != nil {
			return err
		}
		if err := registry.Register(newRunWorkflowSyncTool(deps.Workflows)); err != nil {
			return err
		}
		log.Debug("Registered workflow tools")
	}

	log.Infof("Tool registration complete: %d tools available", registry.Len())
	return nil
}

func newHealthCheckTool(client *functions.Client) Tool {
	return New(
		"health_check",
		"Check the health of the remote function service. Returns service status, name and version.",
		nil,
		func(ctx context.Context, args map[string]interface{}) remote.Result {
			health, err := client.HealthCheck(ctx)
			if err != nil {
				return remote.Failure(remote.ErrorServer, err.Error())
			}
			return remote.Success(map[string]interface{}{
				"status":       health.Status,
				"service_name": health.ServiceName,
				"version":      health.Version,
				"details":      health.Details,
				"healthy":      health.Healthy(),
			})
		},
	)
}

func newInvokeFunctionTool(client *functions.Client) Tool {
	params := []Parameter{
		{Name: "route", Type: TypeString, Description: "Function route to invoke, without the /api prefix", Required: true},
		{Name: "method", Type: TypeString, Description: "HTTP method", Enum: []string{"GET", "POST"}, Default: "POST"},
		{Name: "arguments", Type: TypeObject, Description: "Arguments forwarded to the function"},
	}

	return New(
		"invoke_function",
		"Invoke a named remote function route with arguments and return its structured result.",
		params,
		func(ctx context.Context, args map[string]interface{}) remote.Result {
			route, _ := args["route"].(string)
			method, _ := args["method"].(string)
			fnArgs, _ := args["arguments"].(map[string]interface{})

			return client.Invoke(ctx, method, route, fnArgs)
		},
	)
}

func newTriggerWorkflowTool(client *workflows.Client) Tool {
	params := []Parameter{
		{Name: "action", Type: TypeString, Description: "Workflow action to trigger", Required: true},
		{Name: "input", Type: TypeObject, Description: "Input data passed to the workflow"},
		{Name: "correlation_id", Type: TypeString, Description: "Optional correlation id, generated when omitted"},
	}

	return New(
		"trigger_workflow",
		"Start a workflow run without waiting for completion. Returns the run id and initial status.",
		params,
		func(ctx context.Context, args map[string]interface{}) remote.Result {
			run, err := client.Trigger(ctx, workflowRequest(args))
			if err != nil {
				return workflowFailure(err)
			}
			return remote.Success(runOutput(run))
		},
	)
}

func newRunWorkflowSyncTool(client *workflows.Client) Tool {
	params := []Parameter{
		{Name: "action", Type: TypeString, Description: "Workflow action to run", Required: true},
		{Name: "input", Type: TypeObject, Description: "Input data passed to the workflow"},
		{Name: "correlation_id", Type: TypeString, Description: "Optional correlation id, generated when omitted"},
	}

	return New(
		"run_workflow_sync",
		"Run a workflow and wait for it to finish. Returns the terminal status and output data.",
		params,
		func(ctx context.Context, args map[string]interface{}) remote.Result {
			run, err := client.TriggerAndWait(ctx, workflowRequest(args))
			if err != nil {
				result := workflowFailure(err)
				if run != nil {
					result.Output = runOutput(run)
				}
				return result
			}
			return remote.Success(runOutput(run))
		},
	)
}

func workflowRequest(args map[string]interface{}) workflows.Request {
	action, _ := args["action"].(string)
	input, _ := args["input"].(map[string]interface{})
	correlationID, _ := args["correlation_id"].(string)

	return workflows.Request{
		Action:        action,
		Input:         input,
		CorrelationID: correlationID,
	}
}

func runOutput(run *workflows.Run) map[string]interface{} {
	out := map[string]interface{}{
		"workflow_run_id": run.WorkflowRunID,
		"status":          string(run.Status),
		"correlation_id":  run.CorrelationID,
	}
	if run.Output != nil {
		out["output"] = run.Output
	}
	if run.Error != "" {
		out["error"] = run.Error
	}
	if run.StartedAt != "" {
		out["started_at"] = run.StartedAt
	}
	if run.CompletedAt != "" {
		out["completed_at"] = run.CompletedAt
	}
	return out
}

func workflowFailure(err error) remote.Result {
	switch {
	case errors.Is(err, errors.ErrTimeout), errors.Is(err, errors.ErrWorkflowTimeout):
		return remote.Failure(remote.ErrorTimeout, err.Error())
	case errors.Is(err, errors.ErrCancelled):
		return remote.Failure(remote.ErrorCancelled, err.Error())
	case errors.Is(err, errors.ErrCredential):
		return remote.Failure(remote.ErrorCredential, err.Error())
	case errors.Is(err, errors.ErrInvalidArguments):
		return remote.Failure(remote.ErrorInvalidArguments, err.Error())
	case errors.Is(err, errors.ErrRemoteClient):
		return remote.Failure(remote.ErrorClient, err.Error())
	case errors.Is(err, errors.ErrWorkflowFailed), errors.Is(err, errors.ErrRemoteServer):
		return remote.Failure(remote.ErrorServer, err.Error())
	default:
		return remote.Failure(remote.ErrorInternal, err.Error())
	}
}
