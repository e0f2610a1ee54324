package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	ragsqllog "github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
)

var (
	askToolName    = "ask"
	askDescription = "Answer a natural-language question about the fleet consumption data. Reuses a validated answer when a similar question was confirmed before, otherwise plans and runs a new query."

	confirmToolName    = "confirm"
	confirmDescription = "Mark the most recent planned answer as useful. It is stored as a validated interaction and reused for similar questions."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer"`
}

// ConfirmInput represents the input arguments for the confirm tool.
type ConfirmInput struct {
	CreatedBy string `json:"created_by" jsonschema:"who validated the answer"`
}

// ConfirmOutput is the structured result of the confirm tool.
type ConfirmOutput struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	QueryText string `json:"query_text"`
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, pipeline.Answer, error) {
	logger := s.config.Logger
	logger.Debug("MCP ask request", "question", input.Question)

	answer, err := s.config.Pipeline.Ask(ctx, input.Question)
	if err != nil {
		logger.Warn("MCP ask failed", ragsqllog.Err(err))
		return errorResult(fmt.Sprintf("Failed to answer: %v", err)), pipeline.Answer{}, nil
	}

	texts := make([]string, 0, len(answer.Messages))
	for _, m := range answer.Messages {
		texts = append(texts, m.Text)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: strings.Join(texts, "\n\n")},
		},
	}, *answer, nil
}

func (s *Server) handleConfirm(ctx context.Context, _ *mcp.CallToolRequest, input ConfirmInput) (*mcp.CallToolResult, ConfirmOutput, error) {
	interaction, err := s.config.Pipeline.Confirm(ctx, input.CreatedBy)
	if err != nil {
		s.config.Logger.Warn("MCP confirm failed", ragsqllog.Err(err))
		return errorResult(fmt.Sprintf("Failed to confirm: %v", err)), ConfirmOutput{}, nil
	}

	out := ConfirmOutput{
		ID:        interaction.ID,
		Question:  interaction.Question,
		QueryText: interaction.QueryText,
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Stored interaction %d.", interaction.ID)},
		},
	}, out, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
