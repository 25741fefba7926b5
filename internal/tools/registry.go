package tools

import (
	"sync"

	"foundry/pkg/errors"
)

// Registry holds the set of tools available to the agent. It is safe for
// concurrent use and preserves registration order for listing.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Registering a name that already exists fails with
// ErrDuplicateTool; use Replace to overwrite intentionally.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return errors.Wrap(errors.ErrInvalidInput, "tool must not be nil")
	}
	name := t.Name()
	if name == "" {
		return errors.Wrap(errors.ErrInvalidInput, "tool name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return errors.Wrapf(errors.ErrDuplicateTool, "tool '%s'", name)
	}

	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// Replace adds a tool, overwriting any existing registration with the same
// name. A replaced tool keeps its original position in the listing order.
func (r *Registry) Replace(t Tool) error {
	if t == nil {
		return errors.Wrap(errors.ErrInvalidInput, "tool must not be nil")
	}
	name := t.Name()
	if name == "" {
		return errors.Wrap(errors.ErrInvalidInput, "tool name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
	return nil
}

// Unregister removes a tool by name. Returns false if it was not registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; !exists {
		return false
	}

	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.tools)
}
