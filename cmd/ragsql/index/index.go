// Package indexcmder provides the index command for maintaining the vector
// index built from stored interactions.
package indexcmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/pkg/config"
)

const indexLongDesc string = `Maintain the vector index of confirmed interactions.

The index is derived from the interaction store. If the two drift apart,
for example after an interrupted confirmation, rebuild the index from the
store.

  ragsql index stats      Compare store and index sizes
  ragsql index rebuild    Rebuild the index from the store`

const indexShortDesc string = "Maintain the vector index"

func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: indexShortDesc,
		Long:  indexLongDesc,
	}

	cmd.AddCommand(newRebuildCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

func addFlags(cmd *cobra.Command) {
	for _, key := range []string{
		config.FlagStorageProvider,
		config.FlagSQLite,
		config.FlagPostgresDSN,
		config.FlagVectorStoreProv,
		config.FlagVectorStoreTgt,
	} {
		config.AddStringFlag(cmd, config.PipelineFlags, key, new(string))
	}
	config.AddUintFlag(cmd, config.PipelineFlags, config.FlagEmbeddingDims, new(uint))
}
