package sandbox

import (
	"fmt"
	"strings"
)

// Stage names where a sandbox run failed.
type Stage string

const (
	StageExport  Stage = "export"
	StageStart   Stage = "start"
	StageTimeout Stage = "timeout"
	StageExit    Stage = "exit"
	StageOutput  Stage = "output"
)

// Error is a failed analysis run. It never aborts a plan; callers render it
// as a degraded analysis message.
type Error struct {
	Stage    Stage
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	switch e.Stage {
	case StageExit:
		msg := strings.TrimSpace(e.Stderr)
		if msg == "" && e.Err != nil {
			msg = e.Err.Error()
		}
		return fmt.Sprintf("python error (exit %d): %s", e.ExitCode, msg)
	case StageTimeout:
		return "python error: analysis timed out"
	default:
		if e.Err == nil {
			return fmt.Sprintf("python error (%s)", e.Stage)
		}
		return fmt.Sprintf("python error (%s): %v", e.Stage, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}
