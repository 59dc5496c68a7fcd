package core

import "context"

// Provider is one text-generation backend.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Generator is the multi-provider engine as seen by its consumers.
type Generator interface {
	Generate(ctx context.Context, pc PromptContext) (string, error)
	Summarize(ctx context.Context, text string) string
	ExtractEntities(ctx context.Context, text string) Entities
	Status() []ProviderStatus
}
