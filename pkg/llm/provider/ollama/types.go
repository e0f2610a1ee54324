package ollama

import "github.com/papercomputeco/ragsql/pkg/llm"

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *ollamaOpts   `json:"options,omitempty"`
}

type ollamaOpts struct {
	Temperature float64 `json:"temperature"`
}

type ollamaChatResponse struct {
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error"`
}
