// Package askcmder provides the ask command: one-shot questions or an
// interactive session against the question pipeline.
package askcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/ragsql/cmd/ragsql/stack"
	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/config"
)

const askLongDesc string = `Ask a question about your data in natural language.

With a question argument ragsql answers once and exits. Without one it
starts an interactive session:
  /useful    Store the last answer so similar questions reuse it
  /exit      Quit the session

Answers that were confirmed before are reused when a new question is close
enough to a stored one. Otherwise the LLM plans one or more SQL queries,
optionally followed by python analysis of the results.

Examples:
  ragsql ask "How many trips did truck 12 make last week?"
  ragsql ask --yes "Average fuel use per route in March"
  ragsql ask`

const askShortDesc string = "Ask questions about your data"

type askCommander struct {
	createdBy   string
	autoConfirm bool
}

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := stack.Load(cmd)
			if err != nil {
				return err
			}
			question := ""
			if len(args) == 1 {
				question = args[0]
			}
			return cmder.run(cmd, env, question)
		},
	}

	config.AddPipelineFlags(cmd)
	cmd.Flags().BoolVarP(&cmder.autoConfirm, "yes", "y", false, "Confirm the answer without asking")
	cmd.Flags().StringVar(&cmder.createdBy, "created-by", os.Getenv("USER"), "Name recorded on confirmed answers")

	return cmd
}

func (c *askCommander) run(cmd *cobra.Command, env *stack.Env, question string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	reporter := newReporter(errOut, cliui.IsTerminal(errOut))

	s, err := stack.Build(ctx, env.Config, stack.Options{
		ConfigDir: env.ConfigDir,
		Logger:    env.Logger(errOut),
		Progress:  reporter.progress,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			fmt.Fprintf(errOut, "  %s %v\n", cliui.WarnMark, err)
		}
	}()

	sess := &session{
		pipeline:  s.Orchestrator,
		out:       out,
		reporter:  reporter,
		createdBy: c.createdBy,
	}

	if question != "" {
		if err := sess.ask(ctx, question); err != nil {
			return err
		}
		if c.autoConfirm {
			return sess.confirm(context.WithoutCancel(ctx))
		}
		return nil
	}

	return sess.repl(ctx, cmd.InOrStdin())
}
