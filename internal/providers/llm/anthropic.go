package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 1024

// Anthropic wraps the official SDK. A client is built per call since the
// credential changes with the ring.
type Anthropic struct {
	baseURL string
	timeout time.Duration
}

func NewAnthropic(baseURL string, timeout time.Duration) *Anthropic {
	return &Anthropic{baseURL: baseURL, timeout: timeout}
}

func (a *Anthropic) client(apiKey string) anthropic.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// rotation and cooldown handle retries
		option.WithMaxRetries(0),
	}
	if a.baseURL != "" {
		opts = append(opts, option.WithBaseURL(a.baseURL))
	}
	if a.timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(a.timeout))
	}
	return anthropic.NewClient(opts...)
}

func (a *Anthropic) ListModels(ctx context.Context, apiKey string) ([]string, error) {
	client := a.client(apiKey)
	page, err := client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, err
	}

	models := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, m.ID)
	}
	return models, nil
}

func (a *Anthropic) Complete(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client := a.client(apiKey)
	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("empty reply, stop reason %q", resp.StopReason)
	}
	return text, nil
}
