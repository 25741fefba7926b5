package workers

import (
	"context"
	"time"

	"foundry/internal/functions"
	"foundry/pkg/errors"
)

// HealthProbeWorker periodically probes the remote function app so that
// outages surface in logs and metrics before a user invocation hits them.
type HealthProbeWorker struct {
	*BaseWorker
	client *functions.Client
}

// NewHealthProbeWorker creates the probe worker.
func NewHealthProbeWorker(client *functions.Client, interval time.Duration, enabled bool) *HealthProbeWorker {
	return &HealthProbeWorker{
		BaseWorker: NewBaseWorker("remote_health_probe", interval, enabled),
		client:     client,
	}
}

// Run performs one health probe.
func (w *HealthProbeWorker) Run(ctx context.Context) error {
	start := time.Now()

	health, err := w.client.HealthCheck(ctx)
	duration := time.Since(start)

	if err != nil {
		w.RecordError(err, duration)
		return err
	}

	if !health.Healthy() {
		err := errors.Wrapf(errors.ErrUnavailable, "remote service reported %s", health.Status)
		w.RecordError(err, duration)
		return err
	}

	w.RecordRun(duration)
	w.Log().Debugw("Remote service healthy",
		"service", health.ServiceName,
		"version", health.Version,
		"duration", duration,
	)
	return nil
}
