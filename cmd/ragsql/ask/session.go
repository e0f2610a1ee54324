package askcmder

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
	"github.com/papercomputeco/ragsql/pkg/storage"
)

const (
	cmdUseful = "/useful"
	cmdExit   = "/exit"
	cmdQuit   = "/quit"
)

// Pipeline is what a session needs from the orchestrator.
type Pipeline interface {
	Ask(ctx context.Context, question string) (*pipeline.Answer, error)
	Confirm(ctx context.Context, createdBy string) (*storage.Interaction, error)
}

type session struct {
	pipeline  Pipeline
	out       io.Writer
	reporter  *reporter
	createdBy string
}

// ask answers one question and prints the rendered messages.
func (s *session) ask(ctx context.Context, question string) error {
	s.reporter.begin()
	answer, err := s.pipeline.Ask(ctx, question)
	s.reporter.end(err)
	if err != nil {
		return describeError(err)
	}

	for _, msg := range answer.Messages {
		cliui.Print(s.out, msg.Text)
	}

	if answer.Source == pipeline.SourceRAG {
		fmt.Fprintf(s.out, "  %s\n", cliui.DimStyle.Render(fmt.Sprintf(
			"Reused interaction #%d (similarity %.2f)", answer.MatchedInteractionID, answer.Similarity)))
	}

	return nil
}

func (s *session) confirm(ctx context.Context) error {
	interaction, err := s.pipeline.Confirm(ctx, s.createdBy)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "  %s Stored interaction %s\n",
		cliui.SuccessMark,
		cliui.NameStyle.Render(fmt.Sprintf("#%d", interaction.ID)),
	)
	return nil
}

// repl reads questions line by line until /exit, EOF or cancellation.
// Failures are printed and the session continues.
func (s *session) repl(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(s.out, "%s\n", cliui.DimStyle.Render("Ask a question. /useful stores the last answer, /exit quits."))

	lines, scanErr := readLines(in)
	for {
		fmt.Fprint(s.out, cliui.QueryStyle.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-scanErr
			}
			line = strings.TrimSpace(l)
		}

		switch line {
		case "":
			continue

		case cmdExit, cmdQuit:
			return nil

		case cmdUseful:
			if err := s.confirm(ctx); err != nil {
				s.printError(err)
			}

		default:
			if err := s.ask(ctx, line); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				s.printError(err)
				continue
			}
			fmt.Fprintf(s.out, "  %s\n", cliui.DimStyle.Render("Type /useful if this answer was right."))
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation.
func readLines(in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (s *session) printError(err error) {
	if errors.Is(err, pipeline.ErrNothingToConfirm) {
		fmt.Fprintf(s.out, "  %s Nothing to store yet. Ask a question first.\n", cliui.WarnMark)
		return
	}
	fmt.Fprintf(s.out, "  %s %v\n", cliui.FailMark, err)
}

// describeError prefixes a pipeline failure with its class.
func describeError(err error) error {
	var perr *pipeline.Error
	if !errors.As(err, &perr) {
		return err
	}

	switch perr.Class() {
	case pipeline.ClassParse:
		return fmt.Errorf("could not understand the LLM's plan: %w", err)
	case pipeline.ClassExecution:
		if perr.Retried {
			return fmt.Errorf("query failed after correction: %w", err)
		}
		return fmt.Errorf("query failed: %w", err)
	case pipeline.ClassTransport:
		return fmt.Errorf("provider unavailable: %w", err)
	default:
		return err
	}
}
