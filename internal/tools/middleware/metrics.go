package middleware

import (
	"context"
	"time"

	"foundry/internal/metrics"
	"foundry/internal/remote"
	"foundry/internal/tools"
)

// MetricsMiddleware records Prometheus metrics around tool execution.
type MetricsMiddleware struct{}

// Wrap adds invocation counting, latency observation and retry accounting.
func (m MetricsMiddleware) Wrap(t tools.Tool) tools.Tool {
	return tools.New(t.Name(), t.Description(), t.Parameters(), func(ctx context.Context, args map[string]interface{}) remote.Result {
		start := time.Now()
		result := t.Execute(ctx, args)
		duration := time.Since(start)

		status := "success"
		if !result.OK() {
			status = string(result.ErrorKind)
		}

		metrics.RecordToolInvocation(t.Name(), status, duration, result.Attempts)
		return result
	})
}
