package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/echovoice/internal/config"
	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/internal/service/answer"
	"github.com/sandevgo/echovoice/internal/service/gate"
	"github.com/sandevgo/echovoice/internal/service/retrieval"
	"github.com/sandevgo/echovoice/internal/service/router"
)

type fakeAgents struct {
	agent core.Agent
}

func (f *fakeAgents) Get(_ context.Context, id string) (core.Agent, error) {
	if id != f.agent.ID {
		return core.Agent{}, core.ErrAgentNotFound
	}
	return f.agent, nil
}
func (f *fakeAgents) List(context.Context) ([]core.Agent, error) {
	return []core.Agent{f.agent}, nil
}
func (f *fakeAgents) Save(context.Context, core.Agent) error { return nil }
func (f *fakeAgents) Delete(context.Context, string) error   { return nil }
func (f *fakeAgents) Count(context.Context) (int, error)     { return 1, nil }

type fakeTranscriber struct {
	text     string
	failures int
	calls    int
}

func (f *fakeTranscriber) Transcribe(context.Context, []byte) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", core.ErrTranscriptionFailed
	}
	return f.text, nil
}

type fakeSynthesizer struct {
	file string
	err  error
}

func (f *fakeSynthesizer) Synthesize(context.Context, string, core.VoiceSettings) (string, error) {
	return f.file, f.err
}

type fakeChunkRepo struct {
	chunks []core.DocumentChunk
}

func (f *fakeChunkRepo) ChunksByCategories(_ context.Context, categories []string) ([]core.DocumentChunk, error) {
	if len(categories) == 0 {
		return f.chunks, nil
	}
	allowed := make(map[string]bool)
	for _, c := range categories {
		allowed[c] = true
	}
	var out []core.DocumentChunk
	for _, ch := range f.chunks {
		for _, c := range ch.Categories {
			if allowed[c] {
				out = append(out, ch)
				break
			}
		}
	}
	return out, nil
}

type scriptedProvider struct {
	name  string
	reply func(prompt core.Prompt) (string, error)
}

func (p *scriptedProvider) Name() string { return p.name }
func (p *scriptedProvider) Infer(_ context.Context, prompt core.Prompt) (string, error) {
	return p.reply(prompt)
}

// newPipeline wires real gate, retrieval, router and answer services
// around test doubles for the external systems.
func newPipeline(t *testing.T, chunks []core.DocumentChunk, provider core.InferenceProvider, tr core.Transcriber, sy core.SpeechSynthesizer) *Orchestrator {
	t.Helper()

	agents := &fakeAgents{agent: core.Agent{
		ID:            "agent-1",
		Name:          "Helpdesk",
		Type:          core.AgentSupport,
		KnowledgeTags: []string{"billing"},
	}}

	g := gate.New(&config.AudioConfig{MinDuration: 1500 * time.Millisecond, MinBytes: 5000})
	idx := retrieval.NewIndex(&fakeChunkRepo{chunks: chunks}, &config.RetrievalConfig{TopK: 4, MinScore: 1})
	rt := router.New([]core.InferenceProvider{provider}, &config.RouterConfig{
		FailureThreshold: 2,
		Cooldown:         30 * time.Second,
		ProviderTimeout:  time.Second,
	})
	ans := answer.NewSynthesizer(rt)

	return NewOrchestrator(agents, g, tr, idx, ans, sy, &config.AppConfig{TurnTimeout: 5 * time.Second})
}

func billingChunks() []core.DocumentChunk {
	return []core.DocumentChunk{
		{
			DocumentID: "d1",
			Title:      "Billing FAQ",
			Position:   0,
			Text:       "Refunds are processed within 5 business days of approval.",
			Categories: []string{"billing"},
		},
		{
			DocumentID: "d1",
			Title:      "Billing FAQ",
			Position:   1,
			Text:       "Invoices are issued on day one of each month.",
			Categories: []string{"billing"},
		},
	}
}

func validAudio() []byte { return make([]byte, 8000) }

func TestVoiceTurnBillingQuestion(t *testing.T) {
	provider := &scriptedProvider{name: "ollama", reply: func(prompt core.Prompt) (string, error) {
		require.Contains(t, prompt.User, "5 business days", "evidence must reach the model")
		require.Contains(t, prompt.User, "How long do refunds take?")
		return "Refunds are processed within 5 business days.", nil
	}}
	tr := &fakeTranscriber{text: "How long do refunds take?"}
	sy := &fakeSynthesizer{file: "response_abc.mp3"}

	o := newPipeline(t, billingChunks(), provider, tr, sy)
	res, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.NoError(t, err)

	assert.Equal(t, "How long do refunds take?", res.TranscribedText)
	assert.Contains(t, res.ResponseText, "5 business days")
	assert.Equal(t, "response_abc.mp3", res.AudioFile)
}

func TestVoiceTurnOutOfScopeQuestion(t *testing.T) {
	provider := &scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) {
		t.Fatal("model must not be consulted when nothing is retrieved")
		return "", nil
	}}
	tr := &fakeTranscriber{text: "What is the name of your CEO?"}
	sy := &fakeSynthesizer{file: "response_abc.mp3"}

	o := newPipeline(t, billingChunks(), provider, tr, sy)
	res, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.NoError(t, err)

	assert.Equal(t, answer.NoEvidenceReply, res.ResponseText)
	assert.Equal(t, "response_abc.mp3", res.AudioFile, "fallback reply is still spoken")
}

func TestVoiceTurnRejectsShortAudio(t *testing.T) {
	tr := &fakeTranscriber{text: "hi"}
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) { return "x", nil }},
		tr, &fakeSynthesizer{file: "f.mp3"})

	_, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 800*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAudioTooShort))
	assert.Equal(t, 0, tr.calls, "rejected audio must never reach transcription")
}

func TestVoiceTurnUnknownAgent(t *testing.T) {
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) { return "x", nil }},
		&fakeTranscriber{text: "hi"}, &fakeSynthesizer{file: "f.mp3"})

	_, err := o.VoiceTurn(context.Background(), "no-such-agent", validAudio(), 3*time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAgentNotFound))
}

func TestVoiceTurnTranscriptionRetriesOnce(t *testing.T) {
	tr := &fakeTranscriber{text: "How long do refunds take?", failures: 1}
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) {
			return "Refunds take 5 business days.", nil
		}},
		tr, &fakeSynthesizer{file: "f.mp3"})

	res, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.calls)
	assert.Contains(t, res.ResponseText, "5 business days")
}

func TestVoiceTurnTranscriptionExhaustsRetry(t *testing.T) {
	tr := &fakeTranscriber{text: "unreachable", failures: 10}
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) { return "x", nil }},
		tr, &fakeSynthesizer{file: "f.mp3"})

	_, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrTranscriptionFailed))
	assert.Equal(t, 2, tr.calls, "one initial attempt plus one retry")
}

func TestVoiceTurnSynthesisDegradesToText(t *testing.T) {
	sy := &fakeSynthesizer{err: core.ErrSynthesisFailed}
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) {
			return "Refunds take 5 business days.", nil
		}},
		&fakeTranscriber{text: "How long do refunds take?"}, sy)

	res, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.NoError(t, err, "synthesis failure must not fail the turn")
	assert.Contains(t, res.ResponseText, "5 business days")
	assert.Empty(t, res.AudioFile)
}

func TestVoiceTurnAllProvidersDown(t *testing.T) {
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) {
			return "", errors.New("connection refused")
		}},
		&fakeTranscriber{text: "How long do refunds take?"}, &fakeSynthesizer{file: "f.mp3"})

	res, err := o.VoiceTurn(context.Background(), "agent-1", validAudio(), 3*time.Second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrAllProvidersUnavailable))
	assert.Equal(t, "How long do refunds take?", res.TranscribedText,
		"transcript survives so the client can show what was heard")
}

func TestTextTurn(t *testing.T) {
	o := newPipeline(t, billingChunks(),
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) {
			return "Invoices go out on the first of each month.", nil
		}},
		&fakeTranscriber{text: "unused"}, &fakeSynthesizer{file: "should-not-appear.mp3"})

	res, err := o.TextTurn(context.Background(), "agent-1", "When are invoices issued?")
	require.NoError(t, err)
	assert.Contains(t, res.ResponseText, "Invoices")
	assert.Empty(t, res.TranscribedText)
	assert.Empty(t, res.AudioFile, "text turns produce no audio")
}

func TestGreeting(t *testing.T) {
	o := newPipeline(t, nil,
		&scriptedProvider{name: "ollama", reply: func(core.Prompt) (string, error) { return "x", nil }},
		&fakeTranscriber{}, &fakeSynthesizer{})

	greeting, err := o.Greeting(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Contains(t, greeting, "support")

	_, err = o.Greeting(context.Background(), "missing")
	assert.True(t, errors.Is(err, core.ErrAgentNotFound))
}
