// Package configcmder provides the config command for managing persistent
// ragsql configuration stored in the .ragsql/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent ragsql configuration.

Configuration is stored as config.toml in the .ragsql/ directory and provides
default values for command flags. CLI flags and RAGSQL_* environment
variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.sqlite_path, storage.postgres_dsn,
  datastore.driver, datastore.dsn, datastore.schema_path, datastore.timeout,
  vector_store.provider, vector_store.target, vector_store.m,
  embedding.provider, embedding.target, embedding.model, embedding.dimensions,
  llm.provider, llm.target, llm.model, llm.timeout,
  sandbox.python, sandbox.timeout, pipeline.threshold, pipeline.top_k,
  api.listen, eventstream.provider, eventstream.brokers, eventstream.topic

Use subcommands to get, set, or list configuration values:
  ragsql config set <key> <value>    Set a configuration value
  ragsql config get <key>            Get a configuration value
  ragsql config list                 List all configuration values

Examples:
  ragsql config set datastore.dsn postgres://fleet@localhost/fleet
  ragsql config set llm.provider anthropic
  ragsql config get pipeline.threshold
  ragsql config list`

const configShortDesc string = "Manage persistent ragsql configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
