package query

import "errors"

var (
	// ErrEmbedderRequired indicates a nil embedder was supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidConfig indicates generator settings failed validation.
	ErrInvalidConfig = errors.New("invalid query config")
)
