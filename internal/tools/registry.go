package tools

import "context"

// Tool is a single executable capability: one free-form string in, one result
// string out. Failures are reported through the error return.
type Tool interface {
    Name() string
    Description() string
    Execute(ctx context.Context, input string) (string, error)
}

// Registry maps tool names to implementations. Names() preserves registration
// order, which the planner prompt relies on.
type Registry struct {
    names []string
    tools map[string]Tool
}

func NewRegistry() *Registry {
    return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) {
    if _, exists := r.tools[t.Name()]; !exists {
        r.names = append(r.names, t.Name())
    }
    r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
    t, ok := r.tools[name]
    return t, ok
}

// Names returns registered tool names in registration order.
func (r *Registry) Names() []string {
    out := make([]string, len(r.names))
    copy(out, r.names)
    return out
}

// Descriptions returns a name -> description mapping for all tools.
func (r *Registry) Descriptions() map[string]string {
    out := make(map[string]string, len(r.tools))
    for name, t := range r.tools {
        out[name] = t.Description()
    }
    return out
}

func (r *Registry) Len() int { return len(r.tools) }
