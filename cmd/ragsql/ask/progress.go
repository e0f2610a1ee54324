package askcmder

import (
	"fmt"
	"io"
	"sync"

	"github.com/papercomputeco/ragsql/pkg/cliui"
	"github.com/papercomputeco/ragsql/pkg/pipeline"
)

// reporter drives one spinner per question from pipeline progress events.
// Without a terminal it stays silent.
type reporter struct {
	w       io.Writer
	enabled bool

	mu      sync.Mutex
	spinner *cliui.Spinner
	last    string
}

func newReporter(w io.Writer, enabled bool) *reporter {
	return &reporter{w: w, enabled: enabled}
}

func (r *reporter) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = describe(pipeline.Event{State: pipeline.StateStart})
	if r.enabled {
		r.spinner = cliui.StartSpinner(r.w, r.last)
	}
}

func (r *reporter) progress(e pipeline.Event) {
	msg := describe(e)
	if msg == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.last = msg
	if r.spinner != nil {
		r.spinner.Update(msg)
	}
}

func (r *reporter) end(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.spinner == nil {
		return
	}

	final := "Answered"
	if err != nil {
		final = r.last
	}
	r.spinner.Stop(final, err)
	r.spinner = nil
}

// describe returns the status line for e, or "" for terminal states.
func describe(e pipeline.Event) string {
	switch e.State {
	case pipeline.StateStart, pipeline.StateRagLookup:
		return "Looking for similar questions"
	case pipeline.StateRagHit:
		if e.Steps > 1 {
			return fmt.Sprintf("Replaying confirmed step %d of %d", e.Step, e.Steps)
		}
		return "Reusing a confirmed answer"
	case pipeline.StatePlanRequest:
		return "Planning queries"
	case pipeline.StatePlanExecute:
		if e.Steps > 1 {
			return fmt.Sprintf("Running step %d of %d", e.Step, e.Steps)
		}
		return "Running query"
	case pipeline.StateCorrectionRetry:
		return "Query failed, asking for a correction"
	case pipeline.StateExport:
		if e.Rows > 0 {
			return fmt.Sprintf("Exporting rows %d/%d", e.Row, e.Rows)
		}
		return "Exporting rows"
	case pipeline.StateSynthesis:
		return "Summarizing results"
	default:
		return ""
	}
}
