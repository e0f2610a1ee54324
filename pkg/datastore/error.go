package datastore

import (
	"errors"
	"fmt"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported datastore driver")

// Class groups execution failures by cause.
type Class string

const (
	ClassSyntax     Class = "syntax"
	ClassPermission Class = "permission"
	ClassTimeout    Class = "timeout"
	ClassConnection Class = "connection"
	ClassUnknown    Class = "unknown"
)

// ExecutionError is a failed query. Its text is what the corrector sees.
type ExecutionError struct {
	Query   string
	Message string
	Class   Class
	Err     error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed (%s): %s", e.Class, e.Message)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
