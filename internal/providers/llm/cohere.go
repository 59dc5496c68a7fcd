package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const cohereBaseURL = "https://api.cohere.com"

type Cohere struct {
	baseProvider
}

func NewCohere(baseURL string, timeout time.Duration) *Cohere {
	if baseURL == "" {
		baseURL = cohereBaseURL
	}
	return &Cohere{baseProvider: newBaseProvider(baseURL, timeout)}
}

// ListModels is only consulted when discovery is on; by default Cohere
// runs with the configured model.
func (c *Cohere) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	var result struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/models?endpoint=chat", nil, cohereHeaders(apiKey), &result); err != nil {
		return nil, err
	}
	models := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		models = append(models, m.Name)
	}
	return models, nil
}

func cohereHeaders(apiKey string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + apiKey}
}

func (c *Cohere) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	payload := map[string]any{
		"model":   model,
		"message": prompt,
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/v1/chat", payload, cohereHeaders(apiKey), &result); err != nil {
		return "", err
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return "", fmt.Errorf("empty reply")
	}
	return text, nil
}
