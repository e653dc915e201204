package llm

import (
	"context"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// ToolExecutor runs a named tool and returns its result payload. Execution
// failures are reported inside the payload so the conversation can continue.
type ToolExecutor func(ctx context.Context, name string, args map[string]any) map[string]any

// ToolCaller is implemented by providers that support iterative tool use.
type ToolCaller interface {
	GenerateWithTools(ctx context.Context, messages []Message, tools []ToolSpec, exec ToolExecutor) (string, error)
}

type ToolSpec struct {
	Name        string
	Description string
	Parameters  ParamSchema
}

type ParamSchema struct {
	Properties map[string]Param
	Required   []string
}

type Param struct {
	Type        string
	Description string
}

type Config struct {
	Provider          string
	Model             string
	BaseURL           string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	Temperature       float32
	MaxToolIterations int
}

func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey:            cfg.GeminiAPIKey,
			Model:             cfg.Model,
			Temperature:       cfg.Temperature,
			MaxToolIterations: cfg.MaxToolIterations,
		})
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
		}), nil
	case "disabled", "none":
		return DisabledProvider{}, nil
	default:
		return nil, ErrUnsupportedProvider{Provider: cfg.Provider}
	}
}
