package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	adkagent "google.golang.org/adk/agent"
	adkrunner "google.golang.org/adk/runner"
	adksession "google.golang.org/adk/session"
	"google.golang.org/genai"

	"foundry/internal/adapters/config"
	"foundry/internal/metrics"
	"foundry/pkg/errors"
	"foundry/pkg/logger"
)

// Answer is the outcome of one Ask turn.
type Answer struct {
	Text          string
	SessionID     string
	ToolCallCount int
	Duration      time.Duration
}

// Runner drives the ADK agent loop for a single ask-style interaction. The
// runtime owns the LLM decision loop; Runner collects the final response and
// tool-call accounting.
type Runner struct {
	agent  adkagent.Agent
	runner *adkrunner.Runner
	cfg    config.AgentConfig
	log    *logger.Logger
}

// NewRunner creates the ADK runner over an assembled agent.
func NewRunner(cfg config.AgentConfig, ag adkagent.Agent) (*Runner, error) {
	runnerInstance, err := adkrunner.New(adkrunner.Config{
		AppName:        "foundry",
		Agent:          ag,
		SessionService: adksession.InMemoryService(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create adk runner")
	}

	return &Runner{
		agent:  ag,
		runner: runnerInstance,
		cfg:    cfg,
		log:    logger.Get().With("component", "agent_runner", "agent", cfg.Name),
	}, nil
}

// Ask sends a single prompt through the agent and blocks for the final
// response.
func (r *Runner) Ask(ctx context.Context, prompt string) (*Answer, error) {
	start := time.Now()
	sessionID := uuid.New().String()

	if r.cfg.AskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.AskTimeout)
		defer cancel()
	}

	userContent := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	runConfig := adkagent.RunConfig{
		StreamingMode: adkagent.StreamingModeSSE,
	}

	r.log.Infow("Starting ask turn", "session_id", sessionID)

	toolCallCount := 0
	finalText := ""

	for event, err := range r.runner.Run(ctx, "api", sessionID, userContent, runConfig) {
		if err != nil {
			metrics.RecordAgentCall(r.cfg.Name, r.cfg.Model, time.Since(start), err)
			return nil, errors.Wrap(err, "agent run failed")
		}

		if event == nil || event.LLMResponse.Partial {
			continue
		}

		if event.LLMResponse.Content != nil {
			text := ""
			for _, part := range event.LLMResponse.Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
				if part.FunctionCall != nil {
					toolCallCount++
					if r.cfg.MaxToolCalls > 0 && toolCallCount > r.cfg.MaxToolCalls {
						metrics.RecordAgentCall(r.cfg.Name, r.cfg.Model, time.Since(start), errors.ErrRateLimitExceeded)
						return nil, errors.Wrapf(errors.ErrRateLimitExceeded, "tool call budget of %d exceeded", r.cfg.MaxToolCalls)
					}
				}
			}
			if event.Author == r.agent.Name() && text != "" {
				finalText = text
			}
		}

		if event.TurnComplete && event.IsFinalResponse() {
			break
		}
	}

	duration := time.Since(start)
	metrics.RecordAgentCall(r.cfg.Name, r.cfg.Model, duration, nil)
	r.log.Infow("Ask turn complete", "session_id", sessionID, "duration", duration, "tool_calls", toolCallCount)

	return &Answer{
		Text:          finalText,
		SessionID:     sessionID,
		ToolCallCount: toolCallCount,
		Duration:      duration,
	}, nil
}
