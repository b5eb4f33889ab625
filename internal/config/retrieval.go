package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

type RetrievalConfig struct {
	TopK     int     `env:"RETRIEVAL_TOP_K" envDefault:"4"`
	MinScore float64 `env:"RETRIEVAL_MIN_SCORE" envDefault:"1"`
}

func NewRetrievalConfig(ctx context.Context) *RetrievalConfig {
	c := &RetrievalConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Retrieval config")
	}
	return c
}
