package stack

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/pkg/config"
	"github.com/papercomputeco/ragsql/pkg/logger"
)

// Env is the resolved environment of a command invocation.
type Env struct {
	Config    *config.Config
	ConfigDir string
	Debug     bool
}

// Load resolves the configuration for cmd. Pipeline flags and any extra flag
// sets registered on cmd are bound before the values are read back, so flag
// values win over the file and RAGSQL_* environment.
func Load(cmd *cobra.Command, extra ...config.FlagSet) (*Env, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	debug, _ := cmd.Flags().GetBool("debug")

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}

	config.BindRegisteredFlags(v, cmd, config.PipelineFlags, config.PipelineFlagKeys())
	for _, fs := range extra {
		config.BindRegisteredFlags(v, cmd, fs, fs.Keys())
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &Env{
		Config:    cfg,
		ConfigDir: configDir,
		Debug:     debug,
	}, nil
}

// Logger builds the command logger. Interactive commands log to stderr
// through the pretty handler so answers on stdout stay clean.
func (e *Env) Logger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return logger.New(
		logger.WithDebug(e.Debug),
		logger.WithFormat(logger.FormatPretty),
		logger.WithWriter(w),
	)
}
