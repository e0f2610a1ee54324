// Package servecmder provides the serve command for running the HTTP API and
// the MCP server.
package servecmder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/api"
	"github.com/papercomputeco/ragsql/api/mcp"
	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/config"
	"github.com/papercomputeco/ragsql/pkg/logger"
)

const serveLongDesc string = `Run the ragsql API server.

The server answers questions over HTTP and mounts an MCP endpoint at /mcp:
  POST /v1/ask                  Answer a question
  POST /v1/confirm              Store the last answer
  GET  /v1/interactions/:id     Fetch a stored interaction
  GET  /v1/index/stats          Compare store and index sizes

The vector index is saved when the server shuts down on SIGINT or SIGTERM.

Use the mcp subcommand to serve the MCP tools over stdio instead:
  ragsql serve mcp`

const serveShortDesc string = "Run the ragsql API server"

type serveCommander struct {
	listen    string
	logFile   string
	logFormat string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := stack.Load(cmd, config.ServeFlags)
			if err != nil {
				return err
			}
			return cmder.run(cmd.Context(), env, cmd.ErrOrStderr())
		},
	}

	config.AddPipelineFlags(cmd)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIListen, &cmder.listen)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.Flags().StringVar(&cmder.logFormat, "log-format", string(logger.FormatPretty), "Console log format (text, json, pretty)")

	cmd.AddCommand(newMCPCmd())

	return cmd
}

func (c *serveCommander) run(ctx context.Context, env *stack.Env, stderr io.Writer) error {
	log, closeLog, err := c.newLogger(env, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

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

	mcpServer, err := mcp.NewServer(mcp.Config{
		Pipeline: s.Orchestrator,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	apiServer := api.NewServer(api.Config{
		ListenAddr: env.Config.API.Listen,
		MCP:        mcpServer.Handler(),
	}, s.Orchestrator, log)

	log.Info("starting api server",
		"api_addr", env.Config.API.Listen,
		"datastore", env.Config.DataStore.Driver,
		"vector_store", env.Config.VectorStore.Provider,
	)

	errChan := make(chan error, 1)
	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		log.Info("context done, shutting down")
	}

	return apiServer.Shutdown()
}

// newLogger writes --log-format logs to stderr and, with --log-file, JSON
// logs to the file as well.
func (c *serveCommander) newLogger(env *stack.Env, stderr io.Writer) (*slog.Logger, func(), error) {
	format, err := logger.ParseFormat(c.logFormat)
	if err != nil {
		return nil, nil, err
	}

	console := logger.New(
		logger.WithDebug(env.Debug),
		logger.WithFormat(format),
		logger.WithWriter(stderr),
	)
	if c.logFile == "" {
		return console, func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	file := logger.New(
		logger.WithDebug(env.Debug),
		logger.WithFormat(logger.FormatJSON),
		logger.WithWriter(f),
	)

	return logger.Multi(console, file), func() { _ = f.Close() }, nil
}
