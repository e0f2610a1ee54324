package pipeline

import "github.com/papercomputeco/ragsql/pkg/sandbox"

// State is a state of the question state machine.
type State string

const (
	StateStart           State = "start"
	StateRagLookup       State = "rag_lookup"
	StateRagHit          State = "rag_hit"
	StatePlanRequest     State = "plan_request"
	StatePlanExecute     State = "plan_execute"
	StateCorrectionRetry State = "correction_retry"
	StateSynthesis       State = "synthesis"
	StateExport          State = "export"
	StateSuccess         State = "success"
	StateFailure         State = "failure"
)

// Event is a progress checkpoint. Step and Steps are set for per-step
// events; Row and Rows for CSV export events.
type Event struct {
	State State
	Step  int
	Steps int
	Row   int
	Rows  int
}

// Progress receives checkpoints. It is called synchronously from the
// goroutine running Ask and must not block.
type Progress func(Event)

// ExportProgress adapts p to the sandbox's per-row callback.
func ExportProgress(p Progress) sandbox.ProgressFunc {
	if p == nil {
		return nil
	}
	return func(current, total int) {
		p(Event{State: StateExport, Row: current, Rows: total})
	}
}
