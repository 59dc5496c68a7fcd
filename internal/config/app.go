package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

var _ core.AppConfig = (*AppConfig)(nil)

const (
	TokenizerTiktoken = "tiktoken"
	TokenizerEstimate = "estimate"
)

type AppConfig struct {
	RuntimePath string `env:"RECALL_RUNTIME_PATH" envDefault:".recallbot"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Memory
	HistoryCapacity    int    `env:"HISTORY_CAPACITY" envDefault:"10"`
	MemoryTopK         int    `env:"MEMORY_TOP_K" envDefault:"5"`
	MemoryContextChars int    `env:"MEMORY_CONTEXT_CHARS" envDefault:"800"`
	MemoryMaxStore     int    `env:"MEMORY_MAX_STORE_CHARS" envDefault:"2000"`
	HistoryTokenBudget int    `env:"HISTORY_TOKEN_BUDGET" envDefault:"1500"`
	HistoryTokenizer   string `env:"HISTORY_TOKENIZER" envDefault:"tiktoken"` // tiktoken or estimate
	ExtractionEnabled  bool   `env:"EXTRACTION_ENABLED" envDefault:"false"`

	ReferenceTimezone string `env:"REFERENCE_TIMEZONE" envDefault:"Asia/Kolkata"`

	location *time.Location
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}

	switch c.HistoryTokenizer {
	case TokenizerTiktoken, TokenizerEstimate:
	default:
		return nil, fmt.Errorf("history tokenizer %q: want %s or %s", c.HistoryTokenizer, TokenizerTiktoken, TokenizerEstimate)
	}

	loc, err := time.LoadLocation(c.ReferenceTimezone)
	if err != nil {
		return nil, fmt.Errorf("reference timezone %q: %w", c.ReferenceTimezone, err)
	}
	c.location = loc

	if !filepath.IsAbs(c.RuntimePath) {
		c.RuntimePath = resolveRuntimePath(c.RuntimePath)
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "recallbot.db")
}

func (c AppConfig) GetVectorPath() string {
	return filepath.Join(c.RuntimePath, "vectors")
}

func (c AppConfig) GetHistoryCapacity() int {
	return c.HistoryCapacity
}

func (c AppConfig) GetLocation() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}
