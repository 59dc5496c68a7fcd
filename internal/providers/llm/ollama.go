package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// NewOllama lists models from /api/tags and generates through the
// OpenAI-compatible endpoint. Ollama needs no key; the ring carries a
// placeholder credential.
func NewOllama(baseURL string, timeout time.Duration) *OpenAICompatible {
	o := NewOpenAICompatible(OpenAICompatibleConfig{
		BaseURL:    baseURL,
		AuthHeader: "Authorization",
		AuthPrefix: "Bearer ",
		Timeout:    timeout,
	})
	o.listModels = func(ctx context.Context, apiKey string) ([]string, error) {
		var result struct {
			Models []struct {
				Name string `json:"name"`
			} `json:"models"`
		}
		if err := o.doJSON(ctx, http.MethodGet, "/api/tags", nil, nil, &result); err != nil {
			return nil, fmt.Errorf("ollama not available: %w", err)
		}

		models := make([]string, 0, len(result.Models))
		for _, m := range result.Models {
			models = append(models, m.Name)
		}
		return models, nil
	}
	return o
}
