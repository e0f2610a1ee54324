// Package cliui provides reusable terminal UI helpers (spinners, step indicators,
// markdown rendering) for ragsql CLI commands.
package cliui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	SuccessMark  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Render("✓")
	FailMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	WarnMark     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render("!")
	StepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	KeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	NameStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
	QueryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// Spinner animates a single status line. Update swaps the message while
// the spinner keeps running, which lets long operations report progress.
type Spinner struct {
	w     io.Writer
	mu    sync.Mutex
	msg   string
	start time.Time
	done  chan struct{}
	wg    sync.WaitGroup
}

// StartSpinner begins animating msg on w.
func StartSpinner(w io.Writer, msg string) *Spinner {
	s := &Spinner{
		w:     w,
		msg:   msg,
		start: time.Now(),
		done:  make(chan struct{}),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		frame := 0
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for {
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r\033[K  %s %s",
				spinnerStyle.Render(spinnerFrames[frame%len(spinnerFrames)]),
				s.msg,
			)
			s.mu.Unlock()

			select {
			case <-s.done:
				return
			case <-ticker.C:
				frame++
			}
		}
	}()

	return s
}

// Update replaces the spinner message.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop ends the animation and prints a final ✓ or ✗ line with elapsed time.
func (s *Spinner) Stop(final string, err error) {
	close(s.done)
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "\r\033[K  %s %s %s\n",
		Mark(err),
		final,
		StepStyle.Render(fmt.Sprintf("(%s)", FormatDuration(time.Since(s.start)))),
	)
}

// Step prints an animated spinner while fn runs, then replaces it with
// a ✓ or ✗ checkmark and elapsed time.
func Step(w io.Writer, msg string, fn func() error) error {
	s := StartSpinner(w, msg)
	err := fn()
	s.Stop(msg, err)
	return err
}

// Mark returns a ✓ for nil errors or ✗ for non-nil errors.
func Mark(err error) string {
	if err != nil {
		return FailMark
	}
	return SuccessMark
}

// FormatDuration formats a duration for display (e.g. "12ms" or "3.2s").
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// RenderMarkdown renders markdown content for terminal display using glamour.
func RenderMarkdown(content string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content, err
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content, err
	}

	return rendered, nil
}

// Print writes markdown content to w, rendered through glamour when w is a
// terminal and verbatim otherwise.
func Print(w io.Writer, content string) {
	if IsTerminal(w) {
		if rendered, err := RenderMarkdown(content); err == nil {
			content = rendered
		}
	}
	fmt.Fprintln(w, content)
}
