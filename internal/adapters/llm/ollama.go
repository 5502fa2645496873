// Package llm provides the Ollama completion adapter.
// Clean Architecture: Adapter implementing ports.CompletionService.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pondworks/waldenbot/internal/domain/entities"
	"go.uber.org/zap"
)

// OllamaAdapter implements ports.CompletionService using the Ollama API.
// It wraps exactly one call per Complete invocation and never retries.
type OllamaAdapter struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// NewOllamaAdapter creates a new Ollama completion adapter.
func NewOllamaAdapter(baseURL, model string, logger *zap.Logger) *OllamaAdapter {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OllamaAdapter{
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 300 * time.Second, // Generation can be slow on local models
		},
		logger: logger,
	}
}

// ollamaGenerateRequest is the Ollama generate API request.
type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

// ollamaOptions carries the per-request sampling settings.
type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	NumPredict  int      `json:"num_predict"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// ollamaGenerateResponse is the Ollama generate API response.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends the prompt and returns the produced text with surrounding
// whitespace trimmed. Any transport or service failure is reported as a
// GenerationError carrying the cause; retry policy belongs to the caller.
func (a *OllamaAdapter) Complete(ctx context.Context, prompt string, params entities.GenerationParams) (string, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: params.Temperature,
			NumPredict:  params.MaxTokens,
		},
	}
	if params.TopP > 0 {
		topP := params.TopP
		reqBody.Options.TopP = &topP
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", &entities.GenerationError{Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.baseURL+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", &entities.GenerationError{Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		return "", &entities.GenerationError{Err: fmt.Errorf("calling Ollama: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &entities.GenerationError{Err: fmt.Errorf("Ollama returned status %d", resp.StatusCode)}
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", &entities.GenerationError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	a.logger.Debug("completion finished",
		zap.String("model", a.model),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_len", len(genResp.Response)),
	)

	return strings.TrimSpace(genResp.Response), nil
}
