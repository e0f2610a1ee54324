// Package initcmder provides the init command for initializing a local .ragsql
// directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/config"
)

const dirName = ".ragsql"

const initLongDesc string = `Initialize a new .ragsql/ directory in the current working directory.

Creates a local .ragsql/ directory that takes precedence over the default
~/.ragsql/ directory. The interaction store, the vector index, credentials
and config.toml all live there.

An optional --preset writes a config.toml tuned for a provider:
  openai      OpenAI completions and embeddings (default config)
  anthropic   Anthropic completions, OpenAI embeddings
  ollama      Local Ollama completions and embeddings

Examples:
  ragsql init
  ragsql init --preset ollama`

const initShortDesc string = "Initialize a local .ragsql/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd.OutOrStdout(), preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Provider preset ("+strings.Join(config.ValidPresetNames(), ", ")+")")

	return cmd
}

func runInit(w io.Writer, preset string) error {
	cfg := config.NewDefaultConfig()
	if preset != "" {
		var err error
		if cfg, err = config.PresetConfig(preset); err != nil {
			return err
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if info, err := os.Stat(dir); err == nil && info.IsDir() && preset == "" {
		fmt.Fprintf(w, "  %s Already initialized: %s\n", cliui.WarnMark, dir)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .ragsql directory: %w", err)
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	configPath := cfger.GetTarget()
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "  %s Initialized .ragsql directory: %s\n", cliui.SuccessMark, dir)
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Config file:"), cliui.DimStyle.Render(configPath))
	if preset != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Preset:"), cliui.NameStyle.Render(preset))
	}
	return nil
}
