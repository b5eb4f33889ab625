package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/echovoice/pkg/log"
)

type SpeechConfig struct {
	// whisper.cpp-compatible transcription server.
	TranscriberURL     string        `env:"TRANSCRIBER_URL" envDefault:"http://localhost:8178"`
	TranscriberTimeout time.Duration `env:"TRANSCRIBER_TIMEOUT" envDefault:"20s"`

	// HTTP text-to-speech server.
	SynthesizerURL     string        `env:"SYNTHESIZER_URL" envDefault:"http://localhost:5002"`
	SynthesizerTimeout time.Duration `env:"SYNTHESIZER_TIMEOUT" envDefault:"20s"`
}

func NewSpeechConfig(ctx context.Context) *SpeechConfig {
	c := &SpeechConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Speech config")
	}
	return c
}
