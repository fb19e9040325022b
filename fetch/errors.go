package fetch

import "errors"

var (
	// ErrCacheRequired indicates a nil fetch cache was supplied.
	ErrCacheRequired = errors.New("fetch cache is required")

	// ErrInvalidConfig indicates fetch limits failed validation.
	ErrInvalidConfig = errors.New("invalid fetch config")

	// ErrUnexpectedStatus indicates a non-200 HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNotApplicable indicates an extractor does not handle the content.
	ErrNotApplicable = errors.New("extractor not applicable")
)
