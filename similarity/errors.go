package similarity

import "errors"

var (
	// ErrEmbedderRequired indicates a nil embedder was supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrTaggerRequired indicates a nil tagger was supplied.
	ErrTaggerRequired = errors.New("tagger is required")

	// ErrInvalidWeights indicates signal weights are negative or do not sum to 1.
	ErrInvalidWeights = errors.New("invalid similarity weights")

	// ErrInvalidThresholds indicates label thresholds are out of order or range.
	ErrInvalidThresholds = errors.New("invalid similarity thresholds")
)
