package middleware

import (
	"context"
	"time"

	"foundry/internal/remote"
	"foundry/internal/tools"
)

// TimeoutMiddleware enforces per-call deadlines for tool execution.
type TimeoutMiddleware struct {
	Timeout time.Duration
}

// Wrap sets a timeout on tool execution if configured.
func (m TimeoutMiddleware) Wrap(t tools.Tool) tools.Tool {
	if m.Timeout <= 0 {
		return t
	}

	timeout := m.Timeout

	return tools.New(t.Name(), t.Description(), t.Parameters(), func(ctx context.Context, args map[string]interface{}) remote.Result {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result := t.Execute(callCtx, args)

		// A deadline we imposed reads as a timeout, not a caller cancellation.
		if result.ErrorKind == remote.ErrorCancelled && callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			result.ErrorKind = remote.ErrorTimeout
		}
		return result
	})
}
