package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

// CustomConfig points at any OpenAI-compatible inference endpoint.
type CustomConfig struct {
	BaseURL string `env:"CUSTOM_LLM_BASE_URL,required,notEmpty"`
	APIKey  string `env:"CUSTOM_LLM_API_KEY"`
	Model   string `env:"CUSTOM_LLM_MODEL,required,notEmpty"`
}

func NewCustomConfig(ctx context.Context) *CustomConfig {
	c := &CustomConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Custom LLM config")
	}
	return c
}
