// Package provider builds llm.Completer implementations by provider name.
package provider

import (
	"fmt"
	"time"

	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/llm/provider/anthropic"
	"github.com/papercomputeco/ragsql/pkg/llm/provider/ollama"
	"github.com/papercomputeco/ragsql/pkg/llm/provider/openai"
)

// Supported provider type constants
const (
	Anthropic = "anthropic"
	OpenAI    = "openai"
	Ollama    = "ollama"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{Anthropic, OpenAI, Ollama}
}

// NewCompleterOpts configures New.
type NewCompleterOpts struct {
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	Timeout      time.Duration
}

// New creates a completer for the given provider type.
// Returns an error if the provider type is not recognized.
func New(o *NewCompleterOpts) (llm.Completer, error) {
	switch o.ProviderType {
	case Anthropic:
		return anthropic.New(anthropic.Config{
			BaseURL: o.TargetURL,
			APIKey:  o.APIKey,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	case OpenAI:
		return openai.New(openai.Config{
			BaseURL: o.TargetURL,
			APIKey:  o.APIKey,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	case Ollama:
		return ollama.New(ollama.Config{
			BaseURL: o.TargetURL,
			Model:   o.Model,
			Timeout: o.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", o.ProviderType, SupportedProviders())
	}
}
