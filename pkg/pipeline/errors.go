package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/papercomputeco/ragsql/pkg/datastore"
	"github.com/papercomputeco/ragsql/pkg/embeddings"
	"github.com/papercomputeco/ragsql/pkg/llm"
	"github.com/papercomputeco/ragsql/pkg/plan"
	"github.com/papercomputeco/ragsql/pkg/sandbox"
)

var (
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrNothingToConfirm is returned by Confirm when no planned answer has
	// succeeded since startup or the last confirmation.
	ErrNothingToConfirm = errors.New("no successful interaction to confirm")

	// ErrMissingCreatedBy is returned by Confirm without a validating user.
	ErrMissingCreatedBy = errors.New("created_by is required")
)

// Class is the coarse category of a pipeline failure.
type Class string

const (
	ClassParse     Class = "parse"
	ClassExecution Class = "execution"
	ClassSandbox   Class = "sandbox"
	ClassTransport Class = "transport"
	ClassCancelled Class = "cancelled"
	ClassInternal  Class = "internal"
)

// Error is a terminal pipeline failure. Partial progress is discarded.
type Error struct {
	// Stage is the state the pipeline was in when it failed.
	Stage State

	// Retried is set when the failure happened after the correction retry.
	Retried bool

	Err error
}

func (e *Error) Error() string {
	if e.Retried {
		return fmt.Sprintf("pipeline failed in %s after correction: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("pipeline failed in %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Class classifies the underlying error.
func (e *Error) Class() Class {
	return Classify(e.Err)
}

// Classify maps any error to a Class.
func Classify(err error) Class {
	var (
		execErr    *datastore.ExecutionError
		sandboxErr *sandbox.Error
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCancelled
	case errors.Is(err, plan.ErrParse):
		return ClassParse
	case errors.As(err, &execErr):
		return ClassExecution
	case errors.As(err, &sandboxErr):
		return ClassSandbox
	case errors.Is(err, embeddings.ErrEmbedding), errors.Is(err, llm.ErrCompletion):
		return ClassTransport
	default:
		return ClassInternal
	}
}
