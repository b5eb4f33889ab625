package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sandevgo/echovoice/internal/core"
	"github.com/sandevgo/echovoice/pkg/log"
)

// maxAudioUpload bounds one recorded turn. A minute of 48kHz Opus is
// well under this.
const maxAudioUpload = 10 << 20

const (
	replyCouldNotUnderstand = "I'm sorry, I couldn't understand your audio. Please try speaking clearly and ensure your microphone is working properly."
	replyTemporaryTrouble   = "I'm experiencing technical difficulties. Please try again."
)

type chatResponse struct {
	Success         bool   `json:"success"`
	TranscribedText string `json:"transcribed_text,omitempty"`
	ResponseText    string `json:"response_text"`
	AudioURL        string `json:"audio_url,omitempty"`
	Error           string `json:"error,omitempty"`
}

type textChatRequest struct {
	AgentID string `json:"agent_id"`
	Message string `json:"message"`
}

func (s *Server) handleSpeechChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	agentID := r.FormValue("agent_id")
	if agentID == "" {
		writeError(w, http.StatusBadRequest, "agent_id is required")
		return
	}

	durationMS, err := strconv.Atoi(r.FormValue("duration_ms"))
	if err != nil || durationMS < 0 {
		writeError(w, http.StatusBadRequest, "duration_ms must be a non-negative integer")
		return
	}

	file, header, err := r.FormFile("audio_file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_file is required")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio upload")
		return
	}

	log.FromCtx(r.Context()).Info().
		Str("agent", agentID).
		Str("file", header.Filename).
		Int("bytes", len(audio)).
		Msg("speech turn received")

	result, err := s.turns.VoiceTurn(r.Context(), agentID, audio, time.Duration(durationMS)*time.Millisecond)
	if err != nil {
		s.writeTurnError(w, r, err, result)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Success:         true,
		TranscribedText: result.TranscribedText,
		ResponseText:    result.ResponseText,
		AudioURL:        audioURL(result.AudioFile),
	})
}

func (s *Server) handleTextChat(w http.ResponseWriter, r *http.Request) {
	var req textChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.AgentID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "agent_id and message are required")
		return
	}

	result, err := s.turns.TextTurn(r.Context(), req.AgentID, req.Message)
	if err != nil {
		s.writeTurnError(w, r, err, result)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Success:      true,
		ResponseText: result.ResponseText,
	})
}

// writeTurnError maps pipeline failures to structured turn responses.
// Provider identity never leaks to the client.
func (s *Server) writeTurnError(w http.ResponseWriter, r *http.Request, err error, partial core.TurnResult) {
	logger := log.FromCtx(r.Context())

	switch {
	case errors.Is(err, core.ErrAgentNotFound):
		writeError(w, http.StatusNotFound, "agent not found")

	case errors.Is(err, core.ErrAudioTooShort), errors.Is(err, core.ErrAudioEmpty):
		writeJSON(w, http.StatusBadRequest, chatResponse{
			Success: false,
			Error:   err.Error(),
		})

	case errors.Is(err, core.ErrTranscriptionFailed):
		logger.Warn().Err(err).Msg("transcription failed")
		writeJSON(w, http.StatusOK, chatResponse{
			Success:      false,
			Error:        "could not understand audio, please try again",
			ResponseText: replyCouldNotUnderstand,
		})

	case errors.Is(err, core.ErrAllProvidersUnavailable):
		logger.Error().Err(err).Msg("no inference provider available")
		writeJSON(w, http.StatusServiceUnavailable, chatResponse{
			Success:         false,
			Error:           "service temporarily unavailable",
			TranscribedText: partial.TranscribedText,
			ResponseText:    replyTemporaryTrouble,
		})

	default:
		logger.Error().Err(err).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func audioURL(fileName string) string {
	if fileName == "" {
		return ""
	}
	return "/api/audio/" + fileName
}
