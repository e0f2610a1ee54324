// Package ollama implements llm.Completer over Ollama's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/ragsql/pkg/llm"
)

const (
	DefaultModel   = "llama3.2"
	DefaultBaseURL = "http://localhost:11434"
	DefaultTimeout = 2 * time.Minute
)

// Config holds configuration for the Ollama completer.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Completer calls /api/chat with streaming disabled.
type Completer struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates an Ollama completer.
func New(cfg Config) (*Completer, error) {
	c := &Completer{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}

	return c, nil
}

// Complete sends the prompt with the role's system framing.
func (c *Completer) Complete(ctx context.Context, role llm.Role, prompt string) (string, error) {
	if err := llm.CheckRole(role); err != nil {
		return "", err
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: llm.Messages(role, prompt),
		Stream:   false,
		Options:  &ollamaOpts{Temperature: 0.2},
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal ollama request: %v", llm.ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: create ollama request: %v", llm.ErrCompletion, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send ollama request: %w", llm.ErrCompletion, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: ollama status %d: %s", llm.ErrCompletion, resp.StatusCode, string(body))
	}

	var response ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("%w: decode ollama response: %v", llm.ErrCompletion, err)
	}
	if response.Error != "" {
		return "", fmt.Errorf("%w: ollama error: %s", llm.ErrCompletion, response.Error)
	}

	return response.Message.Content, nil
}

var _ llm.Completer = (*Completer)(nil)
