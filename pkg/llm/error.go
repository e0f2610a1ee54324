package llm

import "errors"

var (
	// ErrCompletion wraps every failed completion request.
	ErrCompletion = errors.New("completion failed")

	// ErrUnknownRole is returned for a role with no system framing.
	ErrUnknownRole = errors.New("unknown completion role")
)
