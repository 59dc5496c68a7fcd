package llm

import (
	"context"
	"fmt"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

const (
	NameGemini     = "gemini"
	NameCohere     = "cohere"
	NameAnthropic  = "anthropic"
	NameOpenAI     = "openai"
	NameOpenRouter = "openrouter"
	NameOllama     = "ollama"
)

type variant func(cfg *config.ProvidersConfig) *Rotating

var variants = map[string]variant{
	NameGemini: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameGemini, NewGemini("", cfg.RequestTimeout), cfg.GeminiAPIKeys, cfg.GeminiModels, true)
	},
	NameCohere: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameCohere, NewCohere("", cfg.RequestTimeout), []string{cfg.CohereAPIKey}, []string{cfg.CohereModel}, false)
	},
	NameAnthropic: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameAnthropic, NewAnthropic("", cfg.RequestTimeout), cfg.AnthropicAPIKeys, cfg.AnthropicModels, true)
	},
	NameOpenAI: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameOpenAI, NewOpenAI(cfg.RequestTimeout), cfg.OpenAIAPIKeys, cfg.OpenAIModels, true)
	},
	NameOpenRouter: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameOpenRouter, NewOpenRouter(cfg.RequestTimeout), cfg.OpenRouterAPIKeys, cfg.OpenRouterModels, false)
	},
	NameOllama: func(cfg *config.ProvidersConfig) *Rotating {
		return NewRotating(NameOllama, NewOllama(cfg.OllamaBaseURL, cfg.RequestTimeout), []string{"ollama"}, cfg.OllamaModels, true)
	},
}

// NewProviders builds the configured providers in priority order.
// Providers without credentials are skipped with a warning.
func NewProviders(ctx context.Context, cfg *config.ProvidersConfig) ([]core.Provider, error) {
	logger := log.FromCtx(ctx)

	providers := make([]core.Provider, 0, len(cfg.Providers))
	for _, name := range cfg.Providers {
		build, ok := variants[name]
		if !ok {
			return nil, fmt.Errorf("unknown llm provider: %s", name)
		}

		p := build(cfg)
		if p.Ring().Len() == 0 {
			logger.Warn().Str("provider", name).Msg("no credentials configured, provider disabled")
			continue
		}

		logger.Info().
			Str("provider", name).
			Int("credentials", p.Ring().Len()).
			Strs("models", p.preferred).
			Msg("starting llm provider")
		providers = append(providers, p)
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no llm provider has credentials: %w", core.ErrNoCredentials)
	}
	return providers, nil
}
