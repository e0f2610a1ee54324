package configcmder

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/config"
)

const listLongDesc string = `List every configuration key with its value in config.toml.

Keys missing from the file are shown as <not set>; their defaults apply.

Examples:
  ragsql config list`

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(cmd.OutOrStdout(), configDir)
		},
	}
}

func runList(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintf(w, "%s %s\n\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(cfger.GetTarget()))

	keys := config.ValidConfigKeys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	for _, key := range keys {
		value, err := cfger.GetConfigValue(key)
		if err != nil {
			return err
		}

		shown := cliui.DimStyle.Render("<not set>")
		if value != "" {
			shown = cliui.ValueStyle.Render(fmt.Sprintf("%q", value))
		}
		fmt.Fprintf(w, "%-*s = %s\n", width, key, shown)
	}

	return nil
}
