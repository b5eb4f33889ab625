package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

type RouterConfig struct {
	// Consecutive failures before a provider enters cooldown.
	FailureThreshold int           `env:"PROVIDER_FAILURE_THRESHOLD" envDefault:"2"`
	Cooldown         time.Duration `env:"PROVIDER_COOLDOWN" envDefault:"30s"`
	ProviderTimeout  time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"45s"`
}

func NewRouterConfig(ctx context.Context) *RouterConfig {
	c := &RouterConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Router config")
	}
	return c
}
