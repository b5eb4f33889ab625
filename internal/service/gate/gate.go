package gate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
)

// Gate validates raw captured audio before anything is sent upstream.
// Malformed input is a client-visible error, never retried.
type Gate struct {
	minDuration time.Duration
	minBytes    int
}

func New(cfg *config.AudioConfig) *Gate {
	return &Gate{
		minDuration: cfg.MinDuration,
		minBytes:    cfg.MinBytes,
	}
}

// Check rejects recordings that are too short or too small to contain
// speech. On success the payload passes through unchanged.
func (g *Gate) Check(audio []byte, duration time.Duration) error {
	if duration < g.minDuration {
		return fmt.Errorf("%w: got %s, need at least %s; please re-record and speak for a few seconds",
			core.ErrAudioTooShort, duration, g.minDuration)
	}
	if len(audio) < g.minBytes {
		return fmt.Errorf("%w: %d bytes of %s audio; check your microphone and speak clearly",
			core.ErrAudioEmpty, len(audio), SniffFormat(audio))
	}
	return nil
}

// SniffFormat identifies the container by magic bytes. Used only for
// logging and client guidance, never for gating decisions.
func SniffFormat(audio []byte) string {
	if len(audio) < 12 {
		return "unknown"
	}
	switch {
	case bytes.Equal(audio[:4], []byte("RIFF")) && bytes.Equal(audio[8:12], []byte("WAVE")):
		return "wav"
	case bytes.Equal(audio[:4], []byte{0x1a, 0x45, 0xdf, 0xa3}):
		return "webm"
	case bytes.Equal(audio[:4], []byte("OggS")):
		return "ogg"
	case bytes.Contains(audio[:12], []byte("ftyp")):
		return "mp4"
	default:
		return "unknown"
	}
}
