package indexcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/logger"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
)

const rebuildLongDesc string = `Rebuild the vector index from the interaction store.

Local indexes (hnsw, sqlite) are discarded and rebuilt from the embeddings
stored with each interaction, in ascending id order. Qdrant points are
upserted in place.

Examples:
  ragsql index rebuild
  ragsql index rebuild --vector-store-provider sqlite`

const rebuildShortDesc string = "Rebuild the vector index from the store"

func newRebuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: rebuildShortDesc,
		Long:  rebuildLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := stack.Load(cmd)
			if err != nil {
				return err
			}
			return runRebuild(cmd, env)
		},
	}

	addFlags(cmd)

	return cmd
}

func runRebuild(cmd *cobra.Command, env *stack.Env) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	log := env.Logger(cmd.ErrOrStderr())

	if err := stack.ResetVectors(env.Config, env.ConfigDir); err != nil {
		return fmt.Errorf("resetting vector index: %w", err)
	}

	store, err := stack.OpenStore(ctx, env.Config, env.ConfigDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	vectors, err := stack.OpenVectors(ctx, env.Config, env.ConfigDir, log)
	if err != nil {
		return err
	}

	var added int
	err = cliui.Step(w, "Rebuilding vector index", func() error {
		added, err = pipeline.Reindex(ctx, store, vectors, log)
		return err
	})
	if closeErr := vectors.Close(); closeErr != nil {
		log.Warn("closing vector index", logger.Err(closeErr))
	}
	if err != nil {
		return err
	}

	printCount(w, "Indexed", added)
	return nil
}

func printCount(w io.Writer, label string, n int) {
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render(label+":"), cliui.ValueStyle.Render(fmt.Sprint(n)))
}
