package storage

import "errors"

// ErrNilInteraction is returned when Insert is called with nil.
var ErrNilInteraction = errors.New("cannot store nil interaction")

// InvalidInteractionError is returned when a required field is empty.
type InvalidInteractionError struct {
	Field string
}

func (e InvalidInteractionError) Error() string {
	return "invalid interaction: " + e.Field + " is required"
}
