// Package ragsqlcmder is the root of the ragsql command tree.
package ragsqlcmder

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/ragsql/cmd/ragsql/ask"
	authcmder "github.com/papercomputeco/ragsql/cmd/ragsql/auth"
	configcmder "github.com/papercomputeco/ragsql/cmd/ragsql/config"
	historycmder "github.com/papercomputeco/ragsql/cmd/ragsql/history"
	indexcmder "github.com/papercomputeco/ragsql/cmd/ragsql/index"
	initcmder "github.com/papercomputeco/ragsql/cmd/ragsql/init"
	servecmder "github.com/papercomputeco/ragsql/cmd/ragsql/serve"
	versioncmder "github.com/papercomputeco/ragsql/cmd/version"
)

const ragsqlLongDesc string = `ragsql answers natural-language questions about a SQL database.

Questions are first matched against answers you confirmed before. New
questions are planned by an LLM into SQL queries, optionally followed by
python analysis, and the results are shown as tables and summaries.

Get started:
  ragsql init --preset openai
  ragsql auth openai
  ragsql config set datastore.dsn postgres://fleet@localhost/fleet
  ragsql ask

Run services using:
  ragsql serve         Run the HTTP API with the MCP endpoint
  ragsql serve mcp     Serve MCP tools over stdio`

const ragsqlShortDesc string = "ragsql - questions to SQL"

func NewRagsqlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ragsql",
		Short:         ragsqlShortDesc,
		Long:          ragsqlLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return loadDotEnv()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .ragsql/ config directory")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(authcmder.NewAuthCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}

// loadDotEnv loads ./.env into the process environment. Variables that are
// already set are left alone and a missing file is not an error.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading .env: %w", err)
}
