package plan

import (
	"errors"
	"fmt"
)

// ErrParse is matched by every *ParseError.
var ErrParse = errors.New("plan parse failed")

// ParseError reports a completion without the required delimiters.
type ParseError struct {
	Shape  Shape
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (%s response): %s", ErrParse, e.Shape, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
