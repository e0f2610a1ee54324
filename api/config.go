// Package api provides the HTTP API for asking questions, confirming answers
// and inspecting validated interactions.
package api

import "net/http"

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8081")
	ListenAddr string

	// MCP is mounted at /mcp when set.
	MCP http.Handler
}
