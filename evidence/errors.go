package evidence

import "errors"

var (
	// ErrClassifierRequired indicates a nil sentence classifier was supplied.
	ErrClassifierRequired = errors.New("sentence classifier is required")

	// ErrEngineRequired indicates a nil similarity engine was supplied.
	ErrEngineRequired = errors.New("similarity engine is required")

	// ErrEmbedderRequired indicates a nil embedder was supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrInvalidConfig indicates matcher tunables failed validation.
	ErrInvalidConfig = errors.New("invalid evidence config")
)
