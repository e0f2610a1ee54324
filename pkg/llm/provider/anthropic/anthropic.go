// Package anthropic implements llm.Completer over the Anthropic messages API.
package anthropic

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
	DefaultModel     = "claude-sonnet-4-5"
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultTimeout   = 90 * time.Second
	DefaultMaxTokens = 4096

	apiVersion  = "2023-06-01"
	temperature = 0.2
)

// Config holds configuration for the Anthropic completer.
type Config struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// Completer calls /v1/messages.
type Completer struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// New creates an Anthropic completer. An API key is required.
func New(cfg Config) (*Completer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic completer requires an API key")
	}

	c := &Completer{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens == 0 {
		c.maxTokens = DefaultMaxTokens
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c.httpClient = &http.Client{Timeout: timeout}

	return c, nil
}

// Complete sends the prompt with the role's system framing as the top-level
// system field.
func (c *Completer) Complete(ctx context.Context, role llm.Role, prompt string) (string, error) {
	if err := llm.CheckRole(role); err != nil {
		return "", err
	}

	t := temperature
	data, err := json.Marshal(messagesRequest{
		Model:  c.model,
		System: role.System(),
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: &t,
	})
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", llm.ErrCompletion, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", llm.ErrCompletion, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic request: %w", llm.ErrCompletion, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", llm.ErrCompletion, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: anthropic API error (status %d): %s", llm.ErrCompletion, resp.StatusCode, string(body))
	}

	var result messagesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", llm.ErrCompletion, err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("%w: anthropic %s: %s", llm.ErrCompletion, result.Error.Type, result.Error.Message)
	}

	text := result.text()
	if text == "" {
		return "", fmt.Errorf("%w: anthropic returned no text (stop reason %q)", llm.ErrCompletion, result.StopReason)
	}

	return text, nil
}

var _ llm.Completer = (*Completer)(nil)
