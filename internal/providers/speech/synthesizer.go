package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/echovoice/internal/core"
)

// Synthesizer converts answer text into an MP3 file under the runtime
// audio directory and returns the file name for /api/audio serving.
type Synthesizer struct {
	client   *http.Client
	baseURL  string
	audioDir string
}

func NewSynthesizer(baseURL, audioDir string, timeout time.Duration) (*Synthesizer, error) {
	if err := os.MkdirAll(audioDir, 0755); err != nil {
		return nil, fmt.Errorf("create audio directory: %w", err)
	}
	return &Synthesizer{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:  baseURL,
		audioDir: audioDir,
	}, nil
}

func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice core.VoiceSettings) (string, error) {
	payload := map[string]any{
		"text":     text,
		"language": voice.Language,
		"gender":   voice.Gender,
		"tone":     voice.Tone,
		"speed":    voice.Speed,
	}
	if voice.Language == "" {
		payload["language"] = "en"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal: %v", core.ErrSynthesisFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/tts", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", core.ErrSynthesisFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: http %d: %s", core.ErrSynthesisFailed, resp.StatusCode, string(body))
	}

	name := fmt.Sprintf("response_%s.mp3", uuid.NewString())
	f, err := os.Create(filepath.Join(s.audioDir, name))
	if err != nil {
		return "", fmt.Errorf("%w: create file: %v", core.ErrSynthesisFailed, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("%w: write file: %v", core.ErrSynthesisFailed, err)
	}
	return name, nil
}
