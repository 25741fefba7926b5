package agent

import (
	"context"

	adkagent "google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	adktool "google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"foundry/internal/adapters/config"
	"foundry/pkg/errors"
)

// ADKTools bridges every registered tool into the ADK runtime. Each bridged
// handler delegates back to Core.InvokeTool so validation, panic containment
// and the result envelope stay in one place.
func ADKTools(core *Core) ([]adktool.Tool, error) {
	registered := core.Registry().List()
	bridged := make([]adktool.Tool, 0, len(registered))

	for _, t := range registered {
		name := t.Name()

		ft, err := functiontool.New(
			functiontool.Config{
				Name:        name,
				Description: t.Description(),
			},
			func(ctx adktool.Context, args map[string]interface{}) (map[string]interface{}, error) {
				result := core.InvokeTool(ctx, name, args)
				return result.AsMap(), nil
			},
		)
		if err != nil {
			return nil, errors.Wrapf(err, "bridge tool %s", name)
		}
		bridged = append(bridged, ft)
	}

	return bridged, nil
}

// NewLLMAgent assembles the ADK agent over the bridged tools.
func NewLLMAgent(cfg config.AgentConfig, core *Core) (adkagent.Agent, error) {
	bridged, err := ADKTools(core)
	if err != nil {
		return nil, err
	}

	model, err := gemini.NewModel(context.Background(), cfg.Model, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini model")
	}

	ag, err := llmagent.New(llmagent.Config{
		Name:        cfg.Name,
		Description: "Assistant with access to remote operational tools",
		Model:       model,
		Tools:       bridged,
		Instruction: cfg.Instruction,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create llm agent")
	}
	return ag, nil
}
