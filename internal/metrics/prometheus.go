package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Tool metrics
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_tool_invocations_total",
			Help: "Total number of tool invocations",
		},
		[]string{"tool", "status"}, // status: success|error kind
	)

	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundry_tool_duration_seconds",
			Help:    "Tool invocation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool"},
	)

	// Remote invocation metrics
	RemoteRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_remote_retries_total",
			Help: "Total number of remote call retry attempts beyond the first",
		},
		[]string{"tool"},
	)

	RemoteCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_remote_calls_total",
			Help: "Total number of remote HTTP calls",
		},
		[]string{"service", "status"}, // service: functions|workflows
	)

	// Workflow metrics
	WorkflowRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_workflow_runs_total",
			Help: "Total number of triggered workflow runs",
		},
		[]string{"action", "status"}, // status: terminal workflow status
	)

	WorkflowWaitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundry_workflow_wait_seconds",
			Help:    "Time spent waiting for workflow completion",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"action"},
	)

	// Agent metrics
	AgentCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_agent_calls_total",
			Help: "Total number of agent ask calls",
		},
		[]string{"agent", "model", "status"}, // status: success|error
	)

	AgentLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundry_agent_latency_seconds",
			Help:    "Agent ask latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"agent", "model"},
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"}, // status: success|error
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foundry_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	WorkerLastRun = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "foundry_worker_last_run_timestamp",
			Help: "Unix timestamp of last worker execution",
		},
		[]string{"worker"},
	)

	// Rate limit metrics
	RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foundry_rate_limit_hits_total",
			Help: "Total number of rate-limited invocations",
		},
		[]string{"scope"},
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(ToolInvocations)
	prometheus.MustRegister(ToolDuration)

	prometheus.MustRegister(RemoteRetries)
	prometheus.MustRegister(RemoteCalls)

	prometheus.MustRegister(WorkflowRuns)
	prometheus.MustRegister(WorkflowWaitDuration)

	prometheus.MustRegister(AgentCalls)
	prometheus.MustRegister(AgentLatency)

	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WorkerLastRun)

	prometheus.MustRegister(RateLimitHits)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordToolInvocation records the outcome of one tool invocation.
func RecordToolInvocation(tool, status string, duration time.Duration, attempts int) {
	ToolInvocations.WithLabelValues(tool, status).Inc()
	ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())

	if attempts > 1 {
		RemoteRetries.WithLabelValues(tool).Add(float64(attempts - 1))
	}
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
	WorkerLastRun.WithLabelValues(worker).SetToCurrentTime()
}

// RecordAgentCall records an agent invocation
func RecordAgentCall(agent, model string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	AgentCalls.WithLabelValues(agent, model, status).Inc()
	AgentLatency.WithLabelValues(agent, model).Observe(latency.Seconds())
}

// RecordWorkflowRun records a completed workflow run
func RecordWorkflowRun(action, status string, waited time.Duration) {
	WorkflowRuns.WithLabelValues(action, status).Inc()
	WorkflowWaitDuration.WithLabelValues(action).Observe(waited.Seconds())
}
