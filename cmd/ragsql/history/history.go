// Package historycmder provides the history command for browsing confirmed
// interactions.
package historycmder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/config"
	"github.com/papercomputeco/ragsql/pkg/storage"
	"github.com/papercomputeco/ragsql/pkg/utils"
)

const historyLongDesc string = `Browse confirmed interactions.

Without arguments, lists every stored interaction. With an id, shows the
question, the SQL, the stored explanation and any analysis code.

Examples:
  ragsql history
  ragsql history 12`

const historyShortDesc string = "Browse confirmed interactions"

const questionWidth = 60

func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [id]",
		Short: historyShortDesc,
		Long:  historyLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := stack.Load(cmd)
			if err != nil {
				return err
			}

			store, err := stack.OpenStore(cmd.Context(), env.Config, env.ConfigDir, env.Logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				return runList(cmd, store)
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid interaction id %q", args[0])
			}
			return runShow(cmd, store, id)
		},
	}

	for _, key := range []string{config.FlagStorageProvider, config.FlagSQLite, config.FlagPostgresDSN} {
		config.AddStringFlag(cmd, config.PipelineFlags, key, new(string))
	}

	return cmd
}

func runList(cmd *cobra.Command, store storage.Driver) error {
	interactions, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing interactions: %w", err)
	}

	w := cmd.OutOrStdout()
	if len(interactions) == 0 {
		fmt.Fprintf(w, "  %s No confirmed interactions yet.\n", cliui.DimStyle.Render("●"))
		return nil
	}

	for _, i := range interactions {
		fmt.Fprintf(w, "  %s  %s  %s  %s\n",
			cliui.NameStyle.Render(fmt.Sprintf("#%-4d", i.ID)),
			cliui.DimStyle.Render(i.CreatedAt.Format("2006-01-02 15:04")),
			cliui.KeyStyle.Render(i.CreatedBy),
			utils.Truncate(oneLine(i.Question), questionWidth),
		)
	}
	return nil
}

func runShow(cmd *cobra.Command, store storage.Driver, id int64) error {
	i, err := store.GetByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if i == nil {
		return fmt.Errorf("interaction %d not found", id)
	}

	cliui.Print(cmd.OutOrStdout(), render(i))
	return nil
}

func render(i *storage.Interaction) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## #%d %s\n\n", i.ID, oneLine(i.Question))
	fmt.Fprintf(&b, "Confirmed by %s on %s\n\n", i.CreatedBy, i.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "```sql\n%s\n```\n", strings.TrimSpace(i.QueryText))

	if i.AnalysisCode != nil {
		fmt.Fprintf(&b, "\n```python\n%s\n```\n", strings.TrimSpace(*i.AnalysisCode))
	}
	if i.Explanation != "" {
		fmt.Fprintf(&b, "\n%s\n", i.Explanation)
	}

	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

