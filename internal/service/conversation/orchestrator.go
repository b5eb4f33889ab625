package conversation

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/internal/service/answer"
	"github.com/sandevgo/echovoice/internal/service/gate"
	"github.com/sandevgo/echovoice/pkg/log"
	"github.com/sandevgo/echovoice/pkg/retry"
)

// Searcher retrieves evidence for a user message, restricted to the
// agent's knowledge categories.
type Searcher interface {
	Search(ctx context.Context, query string, categories []string) (core.RetrievalResult, error)
}

// Answerer produces the grounded reply for a turn.
type Answerer interface {
	Answer(ctx context.Context, agent *core.Agent, message string, res core.RetrievalResult) (string, error)
}

// AudioGate validates raw audio before transcription.
type AudioGate interface {
	Check(audio []byte, duration time.Duration) error
}

// Orchestrator runs the full turn pipeline: gate, transcribe, retrieve,
// answer, synthesize. Each stage either advances the turn or maps to a
// well-defined failure.
type Orchestrator struct {
	agents      core.AgentRepository
	gate        AudioGate
	transcriber core.Transcriber
	searcher    Searcher
	answerer    Answerer
	synthesizer core.SpeechSynthesizer

	turnTimeout     time.Duration
	transcribeRetry *retry.Retrier
}

func NewOrchestrator(
	agents core.AgentRepository,
	audioGate AudioGate,
	transcriber core.Transcriber,
	searcher Searcher,
	answerer Answerer,
	synthesizer core.SpeechSynthesizer,
	cfg *config.AppConfig,
) *Orchestrator {
	return &Orchestrator{
		agents:      agents,
		gate:        audioGate,
		transcriber: transcriber,
		searcher:    searcher,
		answerer:    answerer,
		synthesizer: synthesizer,
		turnTimeout: cfg.TurnTimeout,
		// Transcription gets exactly one retry; transient blips on a
		// local whisper server clear fast or not at all.
		transcribeRetry: retry.NewRetrier(&retry.Config{
			MaxRetries:    1,
			BackoffFactor: 1,
			InitialDelay:  200 * time.Millisecond,
			MaxDelay:      200 * time.Millisecond,
			Jitter:        50 * time.Millisecond,
		}),
	}
}

// VoiceTurn handles one spoken turn. Synthesis failure degrades the
// turn to text-only instead of failing it.
func (o *Orchestrator) VoiceTurn(ctx context.Context, agentID string, audio []byte, duration time.Duration) (core.TurnResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.turnTimeout)
	defer cancel()

	logger := log.FromCtx(ctx)

	agent, err := o.agents.Get(ctx, agentID)
	if err != nil {
		return core.TurnResult{}, err
	}

	if err := o.gate.Check(audio, duration); err != nil {
		return core.TurnResult{}, err
	}
	logger.Debug().
		Str("agent", agent.ID).
		Int("bytes", len(audio)).
		Str("format", gate.SniffFormat(audio)).
		Dur("duration", duration).
		Msg("audio accepted")

	var text string
	err = o.transcribeRetry.Do(ctx, func() error {
		var terr error
		text, terr = o.transcriber.Transcribe(ctx, audio)
		return terr
	})
	if err != nil {
		return core.TurnResult{}, err
	}
	logger.Info().Str("agent", agent.ID).Str("text", text).Msg("transcribed")

	reply, err := o.respond(ctx, &agent, text)
	if err != nil {
		return core.TurnResult{TranscribedText: text}, err
	}

	result := core.TurnResult{
		TranscribedText: text,
		ResponseText:    reply,
	}

	audioFile, err := o.synthesizer.Synthesize(ctx, reply, agent.Voice)
	if err != nil {
		logger.Warn().Err(err).Str("agent", agent.ID).Msg("synthesis failed, degrading to text-only")
		return result, nil
	}
	result.AudioFile = audioFile
	return result, nil
}

// TextTurn handles one typed turn. No audio is produced; typed clients
// render text.
func (o *Orchestrator) TextTurn(ctx context.Context, agentID, message string) (core.TurnResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.turnTimeout)
	defer cancel()

	agent, err := o.agents.Get(ctx, agentID)
	if err != nil {
		return core.TurnResult{}, err
	}

	reply, err := o.respond(ctx, &agent, message)
	if err != nil {
		return core.TurnResult{}, err
	}
	return core.TurnResult{ResponseText: reply}, nil
}

// Greeting returns the agent's model-free conversation opener.
func (o *Orchestrator) Greeting(ctx context.Context, agentID string) (string, error) {
	agent, err := o.agents.Get(ctx, agentID)
	if err != nil {
		return "", err
	}
	return answer.Greeting(&agent), nil
}

func (o *Orchestrator) respond(ctx context.Context, agent *core.Agent, message string) (string, error) {
	evidence, err := o.searcher.Search(ctx, message, agent.KnowledgeTags)
	if err != nil {
		return "", fmt.Errorf("retrieval: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("agent", agent.ID).
		Int("chunks", len(evidence.Chunks)).
		Msg("evidence retrieved")

	return o.answerer.Answer(ctx, agent, message, evidence)
}
