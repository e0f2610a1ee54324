package servecmder

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/api/mcp"
	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/config"
	"github.com/papercomputeco/ragsql/pkg/logger"
)

const mcpLongDesc string = `Serve the ragsql MCP tools over stdio.

Exposes the ask and confirm tools to an MCP client that launches ragsql as a
subprocess. Logs go to stderr; stdout carries the protocol.

Example client entry:
  {"command": "ragsql", "args": ["serve", "mcp"]}`

const mcpShortDesc string = "Serve MCP tools over stdio"

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: mcpShortDesc,
		Long:  mcpLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := stack.Load(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := env.Logger(cmd.ErrOrStderr())

			s, err := stack.Build(ctx, env.Config, stack.Options{
				ConfigDir: env.ConfigDir,
				Logger:    log,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					log.Error("closing pipeline", logger.Err(err))
				}
			}()

			server, err := mcp.NewServer(mcp.Config{
				Pipeline: s.Orchestrator,
				Logger:   log,
			})
			if err != nil {
				return fmt.Errorf("creating MCP server: %w", err)
			}

			log.Info("serving MCP over stdio")
			if err := server.RunStdio(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	config.AddPipelineFlags(cmd)

	return cmd
}
