package llm

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com"

type Gemini struct {
	baseProvider
}

func NewGemini(baseURL string, timeout time.Duration) *Gemini {
	if baseURL == "" {
		baseURL = geminiBaseURL
	}
	return &Gemini{baseProvider: newBaseProvider(baseURL, timeout)}
}

func geminiHeaders(apiKey string) map[string]string {
	return map[string]string{"x-goog-api-key": apiKey}
}

// ListModels returns models that support generateContent, without the
// "models/" prefix.
func (g *Gemini) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	var result struct {
		Models []struct {
			Name    string   `json:"name"`
			Methods []string `json:"supportedGenerationMethods"`
		} `json:"models"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/v1beta/models?pageSize=1000", nil, geminiHeaders(apiKey), &result); err != nil {
		return nil, err
	}

	models := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		if len(m.Methods) > 0 && !slices.Contains(m.Methods, "generateContent") {
			continue
		}
		models = append(models, strings.TrimPrefix(m.Name, "models/"))
	}
	return models, nil
}

func (g *Gemini) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	payload := map[string]any{
		"contents": []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	}

	var result struct {
		Candidates []struct {
			Content      content `json:"content"`
			FinishReason string  `json:"finishReason"`
		} `json:"candidates"`
	}
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", model)
	if err := g.doJSON(ctx, http.MethodPost, path, payload, geminiHeaders(apiKey), &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("empty candidates")
	}
	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty reply, finish reason %q", result.Candidates[0].FinishReason)
	}
	return text, nil
}
