// Package openai implements llm.Completer over the OpenAI chat completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/papercomputeco/ragsql/pkg/llm"
)

const (
	DefaultModel   = "gpt-4o"
	DefaultBaseURL = "https://api.openai.com"
	DefaultTimeout = 90 * time.Second

	// Sampling used for every role.
	temperature = 0.2
	topP        = 1.0
)

// Config holds configuration for the OpenAI completer.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Completer calls /v1/chat/completions.
type Completer struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// New creates an OpenAI completer. An API key is required.
func New(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai completer requires an API key")
	}

	c := &Completer{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
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

	t, p := temperature, topP
	data, err := json.Marshal(openaiRequest{
		Model:       c.model,
		Messages:    llm.Messages(role, prompt),
		Temperature: &t,
		TopP:        &p,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", llm.ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", llm.ErrCompletion, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: openai request: %w", llm.ErrCompletion, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", llm.ErrCompletion, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai API error (status %d): %s", llm.ErrCompletion, resp.StatusCode, string(body))
	}

	var result openaiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", llm.ErrCompletion, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: openai error: %s", llm.ErrCompletion, result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", llm.ErrCompletion)
	}

	return result.Choices[0].Message.Content, nil
}

var _ llm.Completer = (*Completer)(nil)
