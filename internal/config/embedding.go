package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/pkg/log"
)

type EmbeddingConfig struct {
	Provider  string `env:"EMBEDDING_PROVIDER" envDefault:"hash"`
	Model     string `env:"EMBEDDING_MODEL" envDefault:"nomic-embed-text"`
	Dimension int    `env:"EMBEDDING_DIM" envDefault:"384"`
	CacheSize int64  `env:"EMBEDDING_CACHE_SIZE" envDefault:"10000"`
	Persist   bool   `env:"VECTOR_PERSIST" envDefault:"true"`
}

func NewEmbeddingConfig(ctx context.Context) *EmbeddingConfig {
	c := &EmbeddingConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Embedding config")
	}
	return c
}
