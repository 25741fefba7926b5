package health

import (
	"context"
	"time"

	"foundry/internal/functions"
)

// FunctionsChecker probes the remote function app's health_check route.
type FunctionsChecker struct {
	Client *functions.Client
}

func (c FunctionsChecker) Name() string { return "functions" }

func (c FunctionsChecker) Check(ctx context.Context) ComponentHealth {
	start := time.Now()

	h, err := c.Client.HealthCheck(ctx)
	elapsed := time.Since(start).String()

	if err != nil {
		return ComponentHealth{Status: "unhealthy", ResponseTime: elapsed, Error: err.Error()}
	}
	if !h.Healthy() {
		return ComponentHealth{Status: "unhealthy", ResponseTime: elapsed, Error: "service reported " + h.Status}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: elapsed}
}

// StaticChecker reports a fixed configuration state, used for dependencies
// that have no probe endpoint.
type StaticChecker struct {
	CheckName  string
	Configured bool
	Detail     string
}

func (c StaticChecker) Name() string { return c.CheckName }

func (c StaticChecker) Check(ctx context.Context) ComponentHealth {
	if !c.Configured {
		return ComponentHealth{Status: "unhealthy", Error: c.Detail}
	}
	return ComponentHealth{Status: "healthy"}
}
