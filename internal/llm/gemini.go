package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey            string
	Model             string
	Temperature       float32
	MaxToolIterations int
}

type generateContentFunc func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

type GeminiProvider struct {
	model             string
	temperature       float32
	topP              float32
	topK              float32
	maxToolIterations int
	generate          generateContentFunc
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing API key for remote provider")
	}
	if cfg.Model == "" {
		return nil, errors.New("missing model for remote provider")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}
	iterations := cfg.MaxToolIterations
	if iterations <= 0 {
		iterations = 3
	}
	return &GeminiProvider{
		model:             cfg.Model,
		temperature:       temperature,
		topP:              0.95,
		topK:              40,
		maxToolIterations: iterations,
		generate:          client.Models.GenerateContent,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	resp, err := p.generate(ctx, p.model, toContents(messages), p.config(nil))
	if err != nil {
		return "", fmt.Errorf("LLM request failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("LLM response was empty")
	}
	return text, nil
}

// GenerateWithTools runs a bounded tool-use conversation. Function calls
// requested by the model are executed through exec and their results fed
// back as function responses until the model produces text or the
// iteration limit is hit.
func (p *GeminiProvider) GenerateWithTools(ctx context.Context, messages []Message, tools []ToolSpec, exec ToolExecutor) (string, error) {
	contents := toContents(messages)
	config := p.config(toGenaiTools(tools))

	for i := 0; i < p.maxToolIterations; i++ {
		resp, err := p.generate(ctx, p.model, contents, config)
		if err != nil {
			return "", fmt.Errorf("LLM request failed: %w", err)
		}

		calls := resp.FunctionCalls()
		if len(calls) > 0 && exec != nil {
			contents = append(contents, resp.Candidates[0].Content)
			parts := make([]*genai.Part, 0, len(calls))
			for _, call := range calls {
				parts = append(parts, genai.NewPartFromFunctionResponse(call.Name, exec(ctx, call.Name, call.Args)))
			}
			contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))
			continue
		}

		text := strings.TrimSpace(resp.Text())
		if text == "" {
			return "", errors.New("LLM response was empty")
		}
		return text, nil
	}

	return "", ErrToolIterationsExhausted
}

func (p *GeminiProvider) config(tools []*genai.Tool) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
		TopP:        genai.Ptr(p.topP),
		TopK:        genai.Ptr(p.topK),
	}
	if len(tools) > 0 {
		cfg.Tools = tools
	}
	return cfg
}

func toContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.Role(genai.RoleUser)
		if m.Role == "assistant" || m.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

func toGenaiTools(specs []ToolSpec) []*genai.Tool {
	if len(specs) == 0 {
		return nil
	}
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		props := make(map[string]*genai.Schema, len(spec.Parameters.Properties))
		for name, param := range spec.Parameters.Properties {
			props[name] = &genai.Schema{
				Type:        toGenaiType(param.Type),
				Description: param.Description,
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   spec.Parameters.Required,
			},
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

func toGenaiType(t string) genai.Type {
	switch t {
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}
