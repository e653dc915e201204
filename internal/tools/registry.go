package tools

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/focusforge/focusforge/internal/llm"
)

// HandlerFunc executes a tool call. The returned map becomes the function
// response fed back to the model.
type HandlerFunc func(ctx context.Context, args map[string]any) (map[string]any, error)

// Tool is a named operation the planner model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  llm.ParamSchema
	Handler     HandlerFunc
}

// Registry holds the tools available to the planner.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(tool Tool) error {
	if tool.Name == "" {
		return errors.New("tool name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name)
	}
	r.tools[tool.Name] = tool
	r.order = append(r.order, tool.Name)
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns the registered tools in registration order.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Specs converts the registered tools into provider declarations.
func (r *Registry) Specs() []llm.ToolSpec {
	tools := r.List()
	specs := make([]llm.ToolSpec, 0, len(tools))
	for _, tool := range tools {
		specs = append(specs, llm.ToolSpec{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  tool.Parameters,
		})
	}
	return specs
}

// Execute runs the named tool. Failures come back as {"error": ...} payloads
// rather than Go errors so the model conversation can continue.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) map[string]any {
	tool, ok := r.Get(name)
	if !ok {
		return map[string]any{"error": fmt.Sprintf("Tool '%s' not found", name)}
	}
	result, err := tool.Handler(ctx, args)
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return map[string]any{"result": result}
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
