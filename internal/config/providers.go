package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/pkg/log"
)

type ProvidersConfig struct {
	// Priority order; the first entry is the primary provider.
	Providers       []string      `env:"LLM_PROVIDERS" envSeparator:"," envDefault:"gemini,cohere"`
	FailureCooldown time.Duration `env:"AI_PROVIDER_FAILURE_TIMEOUT" envDefault:"30s"`

	GeminiAPIKeys []string `env:"GEMINI_API_KEYS" envSeparator:","`
	GeminiModels  []string `env:"GEMINI_MODELS" envSeparator:"," envDefault:"gemini-2.5-flash,gemini-2.5,gemini-1.5-flash"`

	CohereAPIKey string `env:"COHERE_API_KEY"`
	CohereModel  string `env:"COHERE_MODEL" envDefault:"command-r-08-2024"`

	AnthropicAPIKeys []string `env:"ANTHROPIC_API_KEYS" envSeparator:","`
	AnthropicModels  []string `env:"ANTHROPIC_MODELS" envSeparator:"," envDefault:"claude-sonnet-4-5,claude-3-5-haiku-latest"`

	OpenAIAPIKeys []string `env:"OPENAI_API_KEYS" envSeparator:","`
	OpenAIModels  []string `env:"OPENAI_MODELS" envSeparator:"," envDefault:"gpt-4o-mini"`

	OpenRouterAPIKeys []string `env:"OPENROUTER_API_KEYS" envSeparator:","`
	OpenRouterModels  []string `env:"OPENROUTER_MODELS" envSeparator:"," envDefault:"google/gemma-3-27b-it:free"`

	OllamaBaseURL string   `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaModels  []string `env:"OLLAMA_MODELS" envSeparator:"," envDefault:"llama3.2"`

	RequestTimeout time.Duration `env:"LLM_HTTP_TIMEOUT" envDefault:"60s"`
}

func NewProvidersConfig(ctx context.Context) *ProvidersConfig {
	c := &ProvidersConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Providers config")
	}
	return c
}
