package badger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/storage"
)

// maxPutAttempts bounds retries of a write that lost a transaction conflict.
const maxPutAttempts = 3

type fetchCache struct {
	backend     *Backend
	ownsBackend bool
	ttl         time.Duration
	logger      *slog.Logger
}

var _ storage.FetchCache = (*fetchCache)(nil)

// Option configures a badger fetch cache.
type Option func(*fetchCache) error

// WithLogger sets the logger for the cache.
func WithLogger(logger *slog.Logger) Option {
	return func(c *fetchCache) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithTTL expires entries after ttl. Zero keeps entries until Close.
func WithTTL(ttl time.Duration) Option {
	return func(c *fetchCache) error {
		if ttl < 0 {
			return errors.New("ttl must not be negative")
		}
		c.ttl = ttl
		return nil
	}
}

// NewFetchCache creates a fetch cache on an open backend. The caller keeps
// ownership of the backend.
func NewFetchCache(backend *Backend, opts ...Option) (storage.FetchCache, error) {
	return newFetchCache(backend, false, opts...)
}

// NewMemoryFetchCache opens an in-memory backend owned by the returned cache.
func NewMemoryFetchCache(opts ...Option) (storage.FetchCache, error) {
	return openOwned("", true, opts...)
}

// OpenFetchCache opens an on-disk backend at path owned by the returned cache.
func OpenFetchCache(path string, opts ...Option) (storage.FetchCache, error) {
	return openOwned(path, false, opts...)
}

func openOwned(path string, inMemory bool, opts ...Option) (storage.FetchCache, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	cache, err := newFetchCache(backend, true, opts...)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return cache, nil
}

func newFetchCache(backend *Backend, owns bool, opts ...Option) (*fetchCache, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	c := &fetchCache{
		backend:     backend,
		ownsBackend: owns,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "fetch-cache")
	return c, nil
}

func (c *fetchCache) Get(ctx context.Context, url string) (core.FetchResult, bool, error) {
	if c.backend.IsClosed() {
		return core.FetchResult{}, false, storage.ErrStorageClosed
	}
	var (
		result core.FetchResult
		found  bool
	)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, found, err = readFetchResult(tx, url)
		return err
	}, false)
	return result, found, err
}

func (c *fetchCache) Put(ctx context.Context, result core.FetchResult) (core.FetchResult, error) {
	if result.URL == "" {
		return core.FetchResult{}, storage.ErrEmptyKey
	}
	if c.backend.IsClosed() {
		return core.FetchResult{}, storage.ErrStorageClosed
	}

	var stored core.FetchResult
	var err error
	for attempt := 1; attempt <= maxPutAttempts; attempt++ {
		err = c.backend.WithTx(func(tx *badger.Txn) error {
			existing, found, err := readFetchResult(tx, result.URL)
			if err != nil {
				return err
			}
			if found {
				stored = existing
				return nil
			}
			entry := badger.NewEntry(makeFetchKey(result.URL), storage.MarshalFetchResult(result))
			if c.ttl > 0 {
				entry = entry.WithTTL(c.ttl)
			}
			if err := tx.SetEntry(entry); err != nil {
				return err
			}
			stored = result
			return tx.Commit()
		}, true)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		// A concurrent writer committed first; the next attempt reads its value.
		c.logger.Debug("fetch cache write conflict", "url", result.URL, "attempt", attempt)
	}
	if err != nil {
		return core.FetchResult{}, err
	}
	return stored, nil
}

func (c *fetchCache) Close() error {
	if !c.ownsBackend || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}

func readFetchResult(tx *badger.Txn, url string) (core.FetchResult, bool, error) {
	item, err := tx.Get(makeFetchKey(url))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.FetchResult{}, false, nil
		}
		return core.FetchResult{}, false, err
	}

	var result core.FetchResult
	err = item.Value(func(val []byte) error {
		var err error
		result, err = storage.UnmarshalFetchResult(val)
		return err
	})
	if err != nil {
		return core.FetchResult{}, false, err
	}
	if result.URL != url {
		return core.FetchResult{}, false, nil
	}
	return result, true, nil
}
