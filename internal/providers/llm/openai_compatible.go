package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OpenAICompatible speaks /v1/chat/completions. OpenAI, OpenRouter and
// Ollama differ only in base URL, headers and the model listing path.
type OpenAICompatible struct {
	baseProvider
	authHeader   string
	authPrefix   string
	extraHeaders map[string]string
	listModels   func(ctx context.Context, apiKey string) ([]string, error)
}

type OpenAICompatibleConfig struct {
	BaseURL      string
	AuthHeader   string // e.g., "Authorization"
	AuthPrefix   string // e.g., "Bearer "
	ExtraHeaders map[string]string
	Timeout      time.Duration
}

func NewOpenAICompatible(cfg OpenAICompatibleConfig) *OpenAICompatible {
	o := &OpenAICompatible{
		baseProvider: newBaseProvider(cfg.BaseURL, cfg.Timeout),
		authHeader:   cfg.AuthHeader,
		authPrefix:   cfg.AuthPrefix,
		extraHeaders: cfg.ExtraHeaders,
	}
	o.listModels = o.openAIModels
	return o
}

func (o *OpenAICompatible) headers(apiKey string) map[string]string {
	headers := make(map[string]string, len(o.extraHeaders)+1)
	if o.authHeader != "" && apiKey != "" {
		headers[o.authHeader] = o.authPrefix + apiKey
	}
	for k, v := range o.extraHeaders {
		headers[k] = v
	}
	return headers
}

func (o *OpenAICompatible) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	return o.listModels(ctx, apiKey)
}

func (o *OpenAICompatible) openAIModels(ctx context.Context, apiKey string) ([]string, error) {
	var result struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := o.doJSON(ctx, http.MethodGet, "/v1/models", nil, o.headers(apiKey), &result); err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}

	models := make([]string, 0, len(result.Data))
	for _, m := range result.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

func (o *OpenAICompatible) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	payload := map[string]any{
		"model":    model,
		"messages": []message{{Role: "user", Content: prompt}},
	}

	var result struct {
		Choices []struct {
			Message message `json:"message"`
		} `json:"choices"`
	}
	if err := o.doJSON(ctx, http.MethodPost, "/v1/chat/completions", payload, o.headers(apiKey), &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}

	text := strings.TrimSpace(result.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty reply")
	}
	return text, nil
}
