package core

import "context"

// InferenceProvider is an interchangeable backend that turns a prompt
// into generated text. The router never branches on provider identity.
type InferenceProvider interface {
	Name() string
	Infer(ctx context.Context, prompt Prompt) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechSynthesizer turns answer text into an audio file and returns
// the file name under the runtime audio directory.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice VoiceSettings) (string, error)
}

type AgentRepository interface {
	Get(ctx context.Context, id string) (Agent, error)
	List(ctx context.Context) ([]Agent, error)
	Save(ctx context.Context, agent Agent) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type DocumentRepository interface {
	Save(ctx context.Context, doc Document, chunks []DocumentChunk) error
	List(ctx context.Context) ([]Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// ChunkRepository returns chunks in insertion order, which is the
// retrieval tie-break order.
type ChunkRepository interface {
	ChunksByCategories(ctx context.Context, categories []string) ([]DocumentChunk, error)
}
