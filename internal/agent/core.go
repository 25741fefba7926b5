package agent

import (
	"context"
	"fmt"

	"foundry/internal/remote"
	"foundry/internal/tools"
	"foundry/pkg/logger"
)

// Core dispatches tool invocations against the registry. Every outcome is a
// typed result; panics in tool handlers are contained here.
type Core struct {
	registry *tools.Registry
	log      *logger.Logger
}

// NewCore creates the invocation core over a registry.
func NewCore(registry *tools.Registry) *Core {
	return &Core{
		registry: registry,
		log:      logger.Get().With("component", "agent_core"),
	}
}

// Registry returns the underlying tool registry.
func (c *Core) Registry() *tools.Registry {
	return c.registry
}

// InvokeTool looks up a tool by name, validates the arguments against its
// declared parameters and dispatches. Unknown names and invalid arguments
// are reported without touching the network. Arguments reach the tool
// exactly as supplied.
func (c *Core) InvokeTool(ctx context.Context, name string, args map[string]interface{}) (result remote.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("Tool %s panicked: %v", name, r)
			result = remote.Failure(remote.ErrorInternal, fmt.Sprintf("tool %s panicked: %v", name, r))
		}
	}()

	t, ok := c.registry.Get(name)
	if !ok {
		return remote.Failure(remote.ErrorUnknownTool, fmt.Sprintf("tool '%s' is not registered", name))
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	if err := tools.ValidateArgs(t.Parameters(), args); err != nil {
		return remote.Failure(remote.ErrorInvalidArguments, err.Error())
	}

	c.log.Debugw("Invoking tool", "tool", name)
	return t.Execute(ctx, args)
}
