package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"ECHOVOICE_RUNTIME_PATH" envDefault:".echovoice"`
	ListenAddr  string `env:"ECHOVOICE_LISTEN_ADDR" envDefault:":8080"`

	// Ordered provider list, highest priority first.
	Providers []string `env:"LLM_PROVIDERS" envDefault:"ollama,gemini"`

	// Soft end-to-end budget for a single conversation turn.
	TurnTimeout time.Duration `env:"TURN_TIMEOUT" envDefault:"30s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "echovoice.db")
}

func (c AppConfig) GetAudioPath() string {
	return filepath.Join(c.RuntimePath, "audio")
}
