package enrich

import "errors"

var (
	// ErrModelRequired indicates a nil language model was supplied.
	ErrModelRequired = errors.New("language model is required")

	// ErrInvalidBatchSize indicates a non-positive batch size.
	ErrInvalidBatchSize = errors.New("batch size must be positive")
)
