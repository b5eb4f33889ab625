package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/echovoice/internal/core"
)

// Ollama talks to a local Ollama server through its native generate API.
// It is normally the first provider in the routing order.
type Ollama struct {
	baseProvider
}

func NewOllama(baseURL, apiKey, model string, timeout time.Duration) *Ollama {
	return &Ollama{
		baseProvider: newBaseProvider(baseURL, apiKey, model, timeout),
	}
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Infer(ctx context.Context, prompt core.Prompt) (string, error) {
	payload := map[string]any{
		"model":  o.model,
		"prompt": prompt.User,
		"system": prompt.System,
		"stream": false,
		"options": map[string]any{
			"temperature":    0.3,
			"top_p":          0.9,
			"num_predict":    200,
			"repeat_penalty": 1.1,
		},
	}

	headers := map[string]string{}
	if o.apiKey != "" {
		headers["Authorization"] = "Bearer " + o.apiKey
	}

	resp, err := o.doRequest(ctx, http.MethodPost, "/api/generate", payload, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return "", err
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	text := strings.TrimSpace(result.Response)
	if text == "" {
		return "", fmt.Errorf("empty response: %s", string(data))
	}
	return text, nil
}

// Available reports whether the Ollama server answers its tags endpoint.
func (o *Ollama) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
