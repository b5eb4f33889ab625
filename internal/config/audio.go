package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

type AudioConfig struct {
	// Below this declared duration the recording is rejected outright.
	MinDuration time.Duration `env:"AUDIO_MIN_DURATION" envDefault:"1500ms"`

	// Payloads under this size are treated as silence or noise; 5 KB is
	// roughly the floor for 1.5s of compressed speech-codec audio.
	MinBytes int `env:"AUDIO_MIN_BYTES" envDefault:"5000"`
}

func NewAudioConfig(ctx context.Context) *AudioConfig {
	c := &AudioConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Audio config")
	}
	return c
}
