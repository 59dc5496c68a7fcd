package embedding

import (
	"fmt"

	"github.com/sandevgo/recallbot/internal/config"
	"github.com/sandevgo/recallbot/internal/core"
)

const (
	ProviderHash   = "hash"
	ProviderOllama = "ollama"
)

func NewEmbedder(cfg *config.EmbeddingConfig, ollamaBaseURL string) (*Cached, error) {
	var inner core.Embedder
	switch cfg.Provider {
	case ProviderHash, "":
		inner = NewHashEmbedder(cfg.Dimension)
	case ProviderOllama:
		inner = NewOllamaEmbedder(ollamaBaseURL, cfg.Model, cfg.Dimension)
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Provider)
	}
	return NewCached(inner, cfg.CacheSize)
}
