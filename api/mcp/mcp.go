// Package mcp provides an MCP (Model Context Protocol) server exposing the
// question pipeline as tools.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/utils"
)

// Pipeline is the subset of the orchestrator the tools call.
type Pipeline interface {
	Ask(ctx context.Context, question string) (*pipeline.Answer, error)
	Confirm(ctx context.Context, createdBy string) (*storage.Interaction, error)
}

type Config struct {
	Pipeline Pipeline

	// Noop for empty MCP server
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the ask and confirm tools.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "ragsql",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Pipeline == nil {
			return nil, errors.New("pipeline is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        askToolName,
			Description: askDescription,
		}, s.handleAsk)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        confirmToolName,
			Description: confirmDescription,
		}, s.handleConfirm)
	}

	s.mcpServer = mcpServer

	// Stateless streamable HTTP handler
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// RunStdio serves the tools over stdin and stdout until ctx is cancelled or
// the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
