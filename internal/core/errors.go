package core

import "errors"

var (
	// ErrAudioTooShort is a client input fault: declared duration below
	// the configured minimum. Terminal for the turn, never retried.
	ErrAudioTooShort = errors.New("audio recording too short")

	// ErrAudioEmpty means the payload is below the minimum byte
	// threshold and is treated as silence or noise, not speech.
	ErrAudioEmpty = errors.New("audio recording contains no speech")

	// ErrTranscriptionFailed covers unsupported codec, no speech
	// detected and upstream timeouts.
	ErrTranscriptionFailed = errors.New("transcription failed")

	// ErrAllProvidersUnavailable means every configured inference
	// provider failed or is in cooldown.
	ErrAllProvidersUnavailable = errors.New("all inference providers unavailable")

	// ErrSynthesisFailed is recovered locally: the orchestrator degrades
	// the turn to text-only instead of failing it.
	ErrSynthesisFailed = errors.New("speech synthesis failed")

	ErrAgentNotFound    = errors.New("agent not found")
	ErrDocumentNotFound = errors.New("document not found")
)
