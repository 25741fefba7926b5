package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"foundry/pkg/errors"
)

type Config struct {
	App           AppConfig
	Server        ServerConfig
	Functions     FunctionsConfig
	Workflows     WorkflowsConfig
	Agent         AgentConfig
	RateLimit     RateLimitConfig
	Redis         RedisConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"foundry"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type ServerConfig struct {
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
}

// FunctionsConfig describes the serverless function app the gateway fronts.
// The function key has no default: a missing key surfaces as a configuration
// error at client construction.
type FunctionsConfig struct {
	BaseURL     string        `envconfig:"FUNCTION_APP_URL"`
	FunctionKey string        `envconfig:"FUNCTION_KEY"`
	AuthMode    string        `envconfig:"FUNCTION_AUTH_MODE" default:"static_key"`
	Timeout     time.Duration `envconfig:"FUNCTION_TIMEOUT" default:"30s"`
	MaxRetries  int           `envconfig:"FUNCTION_MAX_RETRIES" default:"3"`
}

// WorkflowsConfig describes the workflow automation trigger endpoint.
type WorkflowsConfig struct {
	TriggerURL   string        `envconfig:"WORKFLOW_TRIGGER_URL"`
	SASToken     string        `envconfig:"WORKFLOW_SAS_TOKEN"`
	AuthMode     string        `envconfig:"WORKFLOW_AUTH_MODE" default:"static_key"`
	Timeout      time.Duration `envconfig:"WORKFLOW_TIMEOUT" default:"60s"`
	MaxRetries   int           `envconfig:"WORKFLOW_MAX_RETRIES" default:"3"`
	PollInterval time.Duration `envconfig:"WORKFLOW_POLL_INTERVAL" default:"5s"`
	MaxWait      time.Duration `envconfig:"WORKFLOW_MAX_WAIT" default:"5m"`
}

// AgentConfig configures the ADK agent the tools are exposed to.
type AgentConfig struct {
	Name         string        `envconfig:"AGENT_NAME" default:"foundry-assistant"`
	Model        string        `envconfig:"AGENT_MODEL" default:"gemini-2.0-flash"`
	APIKey       string        `envconfig:"GEMINI_API_KEY"`
	Instruction  string        `envconfig:"AGENT_INSTRUCTION" default:"You are a helpful assistant with access to remote operational tools. Use them when a request requires live data or side effects."`
	AskTimeout   time.Duration `envconfig:"AGENT_ASK_TIMEOUT" default:"2m"`
	MaxToolCalls int           `envconfig:"AGENT_MAX_TOOL_CALLS" default:"10"`
}

type RateLimitConfig struct {
	// Mode selects the limiter backing: "local", "redis" or "off"
	Mode         string  `envconfig:"RATE_LIMIT_MODE" default:"local"`
	ReqPerMinute float64 `envconfig:"RATE_LIMIT_REQ_PER_MINUTE" default:"120"`
	Burst        int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	HealthProbeInterval time.Duration `envconfig:"WORKER_HEALTH_PROBE_INTERVAL" default:"1m"`
	HealthProbeEnabled  bool          `envconfig:"WORKER_HEALTH_PROBE_ENABLED" default:"true"`
}

// FunctionsConfigured reports whether a function app endpoint is set.
func (c *Config) FunctionsConfigured() bool {
	return c.Functions.BaseURL != ""
}

// WorkflowsConfigured reports whether a workflow trigger endpoint is set.
func (c *Config) WorkflowsConfigured() bool {
	return c.Workflows.TriggerURL != ""
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
