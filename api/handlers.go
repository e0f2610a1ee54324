package api

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`

	// Class and Stage are set for pipeline failures.
	Class pipeline.Class `json:"class,omitempty"`
	Stage pipeline.State `json:"stage,omitempty"`
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// ConfirmRequest is the body of POST /v1/confirm.
type ConfirmRequest struct {
	CreatedBy string `json:"created_by"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleAsk runs a question through the pipeline.
func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "question is required"})
	}

	answer, err := s.pipeline.Ask(c.Context(), req.Question)
	if err != nil {
		var perr *pipeline.Error
		if errors.As(err, &perr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error: perr.Error(),
				Class: perr.Class(),
				Stage: perr.Stage,
			})
		}

		s.logger.Error("ask failed", ragsqllog.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to answer question"})
	}

	return c.JSON(answer)
}

// handleConfirm stores the last successful answer as a validated interaction.
func (s *Server) handleConfirm(c *fiber.Ctx) error {
	var req ConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	interaction, err := s.pipeline.Confirm(c.Context(), req.CreatedBy)
	switch {
	case errors.Is(err, pipeline.ErrMissingCreatedBy):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, pipeline.ErrNothingToConfirm):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	case err != nil:
		s.logger.Error("confirm failed", ragsqllog.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to confirm interaction"})
	}

	return c.Status(fiber.StatusCreated).JSON(withoutEmbedding(interaction))
}

// handleGetInteraction returns a single validated interaction by id.
func (s *Server) handleGetInteraction(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "id must be a positive integer"})
	}

	interaction, err := s.pipeline.Interaction(c.Context(), id)
	if err != nil {
		s.logger.Error("failed to load interaction", "id", id, ragsqllog.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to load interaction"})
	}
	if interaction == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "interaction not found"})
	}

	return c.JSON(withoutEmbedding(interaction))
}

// handleIndexStats compares the store with the vector index.
func (s *Server) handleIndexStats(c *fiber.Ctx) error {
	stats, err := s.pipeline.Stats(c.Context())
	if err != nil {
		s.logger.Error("failed to collect index stats", ragsqllog.Err(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to collect index stats"})
	}
	return c.JSON(stats)
}

func withoutEmbedding(i *storage.Interaction) *storage.Interaction {
	out := *i
	out.Embedding = nil
	return &out
}
