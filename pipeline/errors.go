package pipeline

import "errors"

var (
	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrRetrieverRequired is returned when a retrieval orchestrator is not provided.
	ErrRetrieverRequired = errors.New("retrieval orchestrator required")

	// ErrFetcherRequired is returned when a fetch manager is not provided.
	ErrFetcherRequired = errors.New("fetch manager required")

	// ErrInvalidConfig indicates pipeline settings failed validation.
	ErrInvalidConfig = errors.New("invalid pipeline config")

	// ErrPipelineClosed is returned by Process after Close.
	ErrPipelineClosed = errors.New("pipeline is closed")
)
