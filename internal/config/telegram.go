package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/recallbot/internal/core"
	"github.com/sandevgo/recallbot/pkg/log"
)

var _ core.TelegramConfig = (*TelegramConfig)(nil)

type TelegramConfig struct {
	Token      string  `env:"TELEGRAM_TOKEN,required,notEmpty"`
	AllowedIDs []int64 `env:"TELEGRAM_ALLOWED_IDS,required" envSeparator:","`
}

func NewTelegramConfig(ctx context.Context) *TelegramConfig {
	c := &TelegramConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Telegram config")
	}
	return c
}

func (c TelegramConfig) GetTelegramToken() string {
	return c.Token
}

func (c TelegramConfig) GetAllowedIDs() []int64 {
	return c.AllowedIDs
}
