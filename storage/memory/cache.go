// Package memory provides the default in-process fetch cache.
package memory

import (
	"context"
	"sync"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/storage"
)

type fetchCache struct {
	mu      sync.RWMutex
	entries map[string]core.FetchResult
	closed  bool
}

var _ storage.FetchCache = (*fetchCache)(nil)

// NewFetchCache creates an empty write-once cache.
func NewFetchCache() storage.FetchCache {
	return &fetchCache{entries: make(map[string]core.FetchResult)}
}

func (c *fetchCache) Get(ctx context.Context, url string) (core.FetchResult, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.FetchResult{}, false, storage.ErrStorageClosed
	}
	result, ok := c.entries[url]
	return result, ok, nil
}

func (c *fetchCache) Put(ctx context.Context, result core.FetchResult) (core.FetchResult, error) {
	if result.URL == "" {
		return core.FetchResult{}, storage.ErrEmptyKey
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return core.FetchResult{}, storage.ErrStorageClosed
	}
	if existing, ok := c.entries[result.URL]; ok {
		return existing, nil
	}
	c.entries[result.URL] = result
	return result, nil
}

func (c *fetchCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.entries = nil
	return nil
}
