package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
}

type OpenAIProvider struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float32
	client      *http.Client
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIProvider{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: 35 * time.Second},
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// errorEnvelope matches the error body returned by OpenAI-compatible servers.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	if p.apiKey == "" {
		return "", errors.New("missing API key for remote provider")
	}
	if p.model == "" {
		return "", errors.New("missing model for remote provider")
	}
	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: p.temperature,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			return "", fmt.Errorf("LLM request failed: %s: %s", resp.Status, envelope.Error.Message)
		}
		return "", fmt.Errorf("LLM request failed: %s", resp.Status)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("LLM response had no choices")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("LLM response was empty")
	}
	return content, nil
}
