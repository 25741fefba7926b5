package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"foundry/internal/adapters/config"
	"foundry/internal/adapters/errors/noop"
	"foundry/internal/adapters/errors/sentry"
	"foundry/internal/agent"
	"foundry/internal/api"
	"foundry/internal/api/health"
	"foundry/internal/functions"
	"foundry/internal/metrics"
	"foundry/internal/ratelimit"
	"foundry/internal/remote"
	"foundry/internal/tools"
	"foundry/internal/tools/middleware"
	"foundry/internal/workers"
	"foundry/internal/workflows"
	"foundry/pkg/errors"
	"foundry/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Init()

	limiter := initLimiter(cfg, log)

	fnClient, wfClient := initClients(cfg, limiter, log)

	registry := tools.NewRegistry()
	if err := tools.RegisterAll(registry, tools.Deps{
		Functions: fnClient,
		Workflows: wfClient,
		Log:       log,
	}); err != nil {
		log.Fatalf("Tool registration failed: %v", err)
	}

	applyMiddleware(registry, cfg)

	core := agent.NewCore(registry)

	var asker api.Asker
	if cfg.Agent.APIKey != "" {
		runner, err := initAgentRuntime(cfg, core)
		if err != nil {
			log.Warnf("Agent runtime unavailable: %v", err)
		} else {
			asker = runner
			log.Infow("Agent runtime initialized", "agent", cfg.Agent.Name, "model", cfg.Agent.Model)
		}
	} else {
		log.Info("Agent runtime disabled, no API key configured")
	}

	healthHandler := health.New(log, cfg.App.Name, cfg.App.Version, healthCheckers(cfg, fnClient)...)
	toolsHandler := api.NewToolsHandler(core, asker, log)
	server := api.NewServer(api.ServerConfig{
		Port:        cfg.Server.Port,
		ServiceName: cfg.App.Name,
		Version:     cfg.App.Version,
	}, healthHandler, toolsHandler, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scheduler := workers.NewScheduler()
	if fnClient != nil {
		scheduler.RegisterWorker(workers.NewHealthProbeWorker(
			fnClient,
			cfg.Workers.HealthProbeInterval,
			cfg.Workers.HealthProbeEnabled,
		))
	}
	if err := scheduler.Start(ctx); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(cfg, cancel, server, scheduler, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initLimiter builds the outbound rate limiter per configuration
func initLimiter(cfg *config.Config, log *logger.Logger) remote.Limiter {
	switch cfg.RateLimit.Mode {
	case "off":
		log.Info("Outbound rate limiting disabled")
		return ratelimit.NopLimiter{}

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Infow("Outbound rate limiting via Redis", "addr", cfg.Redis.Addr)
		return ratelimit.NewRedisLimiter(client, "remote", cfg.RateLimit.ReqPerMinute, cfg.RateLimit.Burst)

	default:
		log.Infow("Outbound rate limiting in-process",
			"req_per_minute", cfg.RateLimit.ReqPerMinute,
			"burst", cfg.RateLimit.Burst,
		)
		return ratelimit.NewLocalLimiter(cfg.RateLimit.ReqPerMinute, cfg.RateLimit.Burst)
	}
}

// initClients builds the remote clients for whichever backends are configured
func initClients(cfg *config.Config, limiter remote.Limiter, log *logger.Logger) (*functions.Client, *workflows.Client) {
	var fnClient *functions.Client
	var wfClient *workflows.Client

	if cfg.FunctionsConfigured() {
		client, err := functions.NewClient(cfg.Functions, remote.WithLimiter(limiter))
		if err != nil {
			log.Fatalf("Invalid functions configuration: %v", err)
		}
		fnClient = client
		log.Infow("Functions client initialized", "base_url", cfg.Functions.BaseURL)
	} else {
		log.Warn("Functions backend not configured, function tools unavailable")
	}

	if cfg.WorkflowsConfigured() {
		client, err := workflows.NewClient(cfg.Workflows, remote.WithLimiter(limiter))
		if err != nil {
			log.Fatalf("Invalid workflows configuration: %v", err)
		}
		wfClient = client
		log.Info("Workflows client initialized")
	} else {
		log.Warn("Workflows backend not configured, workflow tools unavailable")
	}

	return fnClient, wfClient
}

// applyMiddleware wraps every registered tool with metrics and timeout
func applyMiddleware(registry *tools.Registry, cfg *config.Config) {
	timeoutMw := middleware.TimeoutMiddleware{Timeout: cfg.Agent.AskTimeout}
	metricsMw := middleware.MetricsMiddleware{}

	for _, t := range registry.List() {
		wrapped := metricsMw.Wrap(timeoutMw.Wrap(t))
		_ = registry.Replace(wrapped)
	}
}

// initAgentRuntime assembles the ADK agent and runner
func initAgentRuntime(cfg *config.Config, core *agent.Core) (*agent.Runner, error) {
	ag, err := agent.NewLLMAgent(cfg.Agent, core)
	if err != nil {
		return nil, err
	}
	return agent.NewRunner(cfg.Agent, ag)
}

// healthCheckers assembles dependency checks for the health endpoints
func healthCheckers(cfg *config.Config, fnClient *functions.Client) []health.Checker {
	checkers := []health.Checker{}

	if fnClient != nil {
		checkers = append(checkers, health.FunctionsChecker{Client: fnClient})
	} else {
		checkers = append(checkers, health.StaticChecker{
			CheckName: "functions",
			Detail:    "FUNCTION_APP_URL not set",
		})
	}

	checkers = append(checkers, health.StaticChecker{
		CheckName:  "workflows",
		Configured: cfg.WorkflowsConfigured(),
		Detail:     "WORKFLOW_TRIGGER_URL not set",
	})

	return checkers
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func waitForShutdown(
	cfg *config.Config,
	cancel context.CancelFunc,
	server *api.Server,
	scheduler *workers.Scheduler,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown: %v", err)
	}

	cancel()

	if err := scheduler.Stop(); err != nil {
		log.Warnf("Scheduler shutdown: %v", err)
	}

	if errorTracker != nil {
		if err := errorTracker.Flush(shutdownCtx); err != nil {
			log.Warnf("Failed to flush error tracker: %v", err)
		}
	}

	log.Info("Shutdown complete")
}
