package storage

import (
	"context"

	"github.com/poiesic/sourcetrace/core"
)

// FetchCache stores fetch outcomes for the duration of a run.
// Implementations must be safe for concurrent use.
type FetchCache interface {
	// Get returns the stored result for url. The boolean is false when
	// nothing has been stored yet.
	Get(ctx context.Context, url string) (core.FetchResult, bool, error)

	// Put stores result under result.URL unless a value is already present.
	// It returns the value held by the cache after the call, which is the
	// earlier value when one existed.
	Put(ctx context.Context, result core.FetchResult) (core.FetchResult, error)

	// Close releases resources. Later calls fail with ErrStorageClosed.
	Close() error
}
