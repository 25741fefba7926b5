package tools

import (
	"context"

	"foundry/internal/remote"
)

// Tool represents a named, remotely invokable capability exposed to the
// agent runtime.
type Tool interface {
	// Name returns the unique tool identifier.
	Name() string
	// Description returns a short human-readable summary the LLM uses to
	// decide invocation.
	Description() string
	// Parameters describes the accepted arguments.
	Parameters() []Parameter
	// Execute performs the tool's action. It always returns a typed result;
	// failures never surface as faults.
	Execute(ctx context.Context, args map[string]interface{}) remote.Result
}

// HandlerFunc is the function signature for tool handlers.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) remote.Result

// FunctionTool is a simple Tool implementation backed by a handler function.
type FunctionTool struct {
	name        string
	description string
	params      []Parameter
	handler     HandlerFunc
}

// New creates a new function-backed Tool.
func New(name, description string, params []Parameter, handler HandlerFunc) Tool {
	return &FunctionTool{
		name:        name,
		description: description,
		params:      params,
		handler:     handler,
	}
}

// Name returns the tool identifier.
func (t *FunctionTool) Name() string { return t.name }

// Description returns a human description of the tool.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the tool's argument descriptors.
func (t *FunctionTool) Parameters() []Parameter { return t.params }

// Execute runs the underlying handler.
func (t *FunctionTool) Execute(ctx context.Context, args map[string]interface{}) remote.Result {
	if t.handler == nil {
		return remote.Failure(remote.ErrorInternal, "tool handler is not defined")
	}

	return t.handler(ctx, args)
}
