package api

import (
	"context"
	"encoding/json"
	"net/http"

	"foundry/internal/agent"
	"foundry/internal/remote"
	"foundry/internal/tools"
	"foundry/pkg/logger"
)

// Asker answers free-form prompts, typically through the agent runtime.
type Asker interface {
	Ask(ctx context.Context, prompt string) (*agent.Answer, error)
}

// ToolsHandler exposes tool listing and direct invocation over HTTP.
type ToolsHandler struct {
	core  *agent.Core
	asker Asker
	log   *logger.Logger
}

// NewToolsHandler creates the handler. asker may be nil when no agent
// runtime is configured.
func NewToolsHandler(core *agent.Core, asker Asker, log *logger.Logger) *ToolsHandler {
	return &ToolsHandler{
		core:  core,
		asker: asker,
		log:   log.With("component", "tools_api"),
	}
}

type invokeRequest struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// HandleList returns the registered tools in registration order.
func (h *ToolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	registered := h.core.Registry().List()
	descriptors := make([]toolDescriptor, 0, len(registered))
	for _, t := range registered {
		descriptors = append(descriptors, toolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  tools.Schema(t.Parameters()),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"tools": descriptors})
}

// HandleInvoke dispatches a tool by name and returns the result envelope.
// The response is always 200 with a structured result; invocation failures
// are encoded in the envelope, not as HTTP errors.
func (h *ToolsHandler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, remote.Failure(remote.ErrorInvalidArguments, "malformed request body"))
		return
	}
	if req.Tool == "" {
		writeJSON(w, http.StatusBadRequest, remote.Failure(remote.ErrorInvalidArguments, "tool name is required"))
		return
	}

	result := h.core.InvokeTool(r.Context(), req.Tool, req.Arguments)
	writeJSON(w, http.StatusOK, result)
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// HandleAsk forwards a prompt to the agent runtime.
func (h *ToolsHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.asker == nil {
		http.Error(w, "agent runtime is not configured", http.StatusServiceUnavailable)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "prompt is required"})
		return
	}

	answer, err := h.asker.Ask(r.Context(), req.Prompt)
	if err != nil {
		h.log.Errorf("Agent ask failed: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"text":       answer.Text,
		"session_id": answer.SessionID,
		"tool_calls": answer.ToolCallCount,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
