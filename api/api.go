package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage"
)

// Pipeline is the question pipeline the server exposes.
type Pipeline interface {
	Ask(ctx context.Context, question string) (*pipeline.Answer, error)
	Confirm(ctx context.Context, createdBy string) (*storage.Interaction, error)
	Interaction(ctx context.Context, id int64) (*storage.Interaction, error)
	Stats(ctx context.Context) (pipeline.Stats, error)
}

// Server is the API server for asking questions and managing validated
// interactions.
type Server struct {
	config   Config
	pipeline Pipeline
	logger   *slog.Logger
	app      *fiber.App
}

// NewServer creates a new API server around p.
func NewServer(config Config, p Pipeline, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config:   config,
		pipeline: p,
		logger:   logger,
		app:      app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/ask", s.handleAsk)
	app.Post("/v1/confirm", s.handleConfirm)
	app.Get("/v1/interactions/:id", s.handleGetInteraction)
	app.Get("/v1/index/stats", s.handleIndexStats)

	if config.MCP != nil {
		app.All("/mcp", adaptor.HTTPHandler(config.MCP))
	}

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
