package indexcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
)

const statsLongDesc string = `Compare the number of stored interactions with indexed vectors.

A mismatch means some confirmed interactions cannot be found by similarity
search. Run 'ragsql index rebuild' to repair it.

Examples:
  ragsql index stats`

const statsShortDesc string = "Compare store and index sizes"

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := stack.Load(cmd)
			if err != nil {
				return err
			}
			return runStats(cmd, env)
		},
	}

	addFlags(cmd)

	return cmd
}

func runStats(cmd *cobra.Command, env *stack.Env) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	log := env.Logger(cmd.ErrOrStderr())

	store, err := stack.OpenStore(ctx, env.Config, env.ConfigDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	vectors, err := stack.OpenVectors(ctx, env.Config, env.ConfigDir, log)
	if err != nil {
		return err
	}
	defer vectors.Close()

	var stats pipeline.Stats
	if stats.StoreCount, err = store.Count(ctx); err != nil {
		return fmt.Errorf("counting interactions: %w", err)
	}
	if stats.IndexCount, err = vectors.Count(ctx); err != nil {
		return fmt.Errorf("counting vectors: %w", err)
	}

	fmt.Fprintln(w)
	printCount(w, "Interactions", stats.StoreCount)
	printCount(w, "Indexed     ", stats.IndexCount)
	fmt.Fprintln(w)

	if !stats.InSync() {
		fmt.Fprintf(w, "  %s Index is out of sync with the store. Run 'ragsql index rebuild'.\n\n", cliui.WarnMark)
		return nil
	}
	fmt.Fprintf(w, "  %s Index is in sync.\n\n", cliui.SuccessMark)
	return nil
}
