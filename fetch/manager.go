package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/storage"
)

// Manager fetches candidate URLs through the run-scoped cache.
// It is safe for concurrent use.
type Manager struct {
	cache      storage.FetchCache
	client     *http.Client
	extractors []Extractor
	global     *semaphore.Weighted
	inflight   singleflight.Group
	config     Config
	logger     *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets the logger for the manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithConfig sets the fetch limits. The config is validated.
func WithConfig(config Config) Option {
	return func(m *Manager) error {
		if err := config.Validate(); err != nil {
			return err
		}
		m.config = config
		return nil
	}
}

// WithHTTPClient replaces the HTTP client. The per-fetch timeout still applies.
func WithHTTPClient(client *http.Client) Option {
	return func(m *Manager) error {
		if client != nil {
			m.client = client
		}
		return nil
	}
}

// WithExtractors replaces the extractor chain.
func WithExtractors(extractors ...Extractor) Option {
	return func(m *Manager) error {
		m.extractors = extractors
		return nil
	}
}

// NewManager creates a fetch manager over cache.
func NewManager(cache storage.FetchCache, opts ...Option) (*Manager, error) {
	if cache == nil {
		return nil, ErrCacheRequired
	}
	m := &Manager{
		cache:  cache,
		client: http.DefaultClient,
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	if m.extractors == nil {
		m.extractors = DefaultExtractors(m.config.AllowBinary)
	}
	m.global = semaphore.NewWeighted(int64(m.config.MaxConcurrent))
	m.logger = m.logger.With("component", "fetch")
	return m, nil
}

// PerBlock returns the configured per-block fetch limit.
func (m *Manager) PerBlock() int {
	return m.config.PerBlock
}

// Fetch returns the text of url. Cached outcomes are returned without
// network access. Binary URLs are skipped without network access unless
// binary scraping is allowed. Every failure yields a result with nil Text.
func (m *Manager) Fetch(ctx context.Context, url string) core.FetchResult {
	if url == "" {
		return core.FetchResult{}
	}
	if cached, ok, err := m.cache.Get(ctx, url); err != nil {
		m.logger.Warn("fetch cache read failed", "url", url, "err", err)
	} else if ok {
		return cached
	}

	if !m.config.AllowBinary && IsBinaryURL(url) {
		m.logger.Info("skipping binary document", "url", url)
		return m.store(ctx, core.FetchResult{URL: url, SkippedAsPDF: true})
	}

	v, _, _ := m.inflight.Do(url, func() (any, error) {
		if err := m.global.Acquire(ctx, 1); err != nil {
			// Canceled before the request started; the URL stays uncached.
			return core.FetchResult{URL: url}, nil
		}
		defer m.global.Release(1)
		return m.store(ctx, m.download(ctx, url)), nil
	})
	return v.(core.FetchResult)
}

// FetchCandidates fetches every candidate URL with at most perBlock fetches
// in flight. Results are aligned with candidates. A non-positive perBlock
// uses the configured limit.
func (m *Manager) FetchCandidates(ctx context.Context, candidates []core.Candidate, perBlock int) []core.FetchResult {
	if perBlock <= 0 {
		perBlock = m.config.PerBlock
	}
	results := make([]core.FetchResult, len(candidates))
	var g errgroup.Group
	g.SetLimit(perBlock)
	for i, c := range candidates {
		g.Go(func() error {
			results[i] = m.Fetch(ctx, c.URL)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (m *Manager) store(ctx context.Context, result core.FetchResult) core.FetchResult {
	stored, err := m.cache.Put(ctx, result)
	if err != nil {
		m.logger.Warn("fetch cache write failed", "url", result.URL, "err", err)
		return result
	}
	return stored
}

func (m *Manager) download(ctx context.Context, url string) core.FetchResult {
	result := core.FetchResult{URL: url}

	ctx, cancel := context.WithTimeout(ctx, m.config.Timeout)
	defer cancel()

	doc, err := m.get(ctx, url)
	if err != nil {
		m.logger.Warn("fetch failed", "url", url, "err", err)
		return result
	}
	if !m.config.AllowBinary && (IsBinaryContentType(doc.ContentType) || IsPDF(doc)) {
		m.logger.Info("skipping binary document", "url", url, "content_type", doc.ContentType)
		result.SkippedAsPDF = true
		return result
	}

	text, extractor, err := runChain(m.extractors, doc)
	if err != nil {
		m.logger.Warn("extraction failed", "url", url, "err", err)
	}
	if text == "" {
		return result
	}
	text = finalizeText(text, m.config.MaxTextChars)
	result.Text = &text
	m.logger.Debug("fetched source", "url", url, "extractor", extractor, "chars", len(text))
	return result
}

func (m *Manager) get(ctx context.Context, url string) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", m.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := m.client.Do(req)
	if err != nil {
		return Document{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, m.config.MaxBodyBytes))
	if err != nil {
		return Document{}, fmt.Errorf("failed to read response: %w", err)
	}
	return Document{URL: url, ContentType: resp.Header.Get("Content-Type"), Body: body}, nil
}
