package consolidate

import "errors"

var (
	// ErrInvalidMode indicates an unknown consolidation mode.
	ErrInvalidMode = errors.New("invalid consolidation mode")

	// ErrInvalidOptions indicates consolidation limits failed validation.
	ErrInvalidOptions = errors.New("invalid consolidation options")
)
