package retrieval

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderNotConfigured indicates a provider lacks credentials or an endpoint.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrNoProviders indicates an orchestrator was created without providers.
	ErrNoProviders = errors.New("at least one provider is required")

	// ErrInvalidConfig indicates retrieval settings failed validation.
	ErrInvalidConfig = errors.New("invalid retrieval config")

	// ErrInvalidMaxAttempts indicates a retry policy without attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrModelRequired indicates a nil language model was supplied.
	ErrModelRequired = errors.New("language model is required")
)

// TransientError marks a failure worth retrying: timeouts, transport
// errors, 5xx and 429 responses.
type TransientError struct {
	Provider string
	Err      error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient: %v", e.Provider, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a failure that will not improve on retry: 4xx
// responses and malformed payloads.
type PermanentError struct {
	Provider string
	Err      error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("%s: permanent: %v", e.Provider, e.Err)
}

func (e *PermanentError) Unwrap() error { return e.Err }

// IsTransient reports whether err is or wraps a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
