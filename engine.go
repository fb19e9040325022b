// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package sourcetrace finds external sources that a document copies,
// paraphrases or borrows ideas from, and reports per-sentence evidence.
//
// Engine wires configuration into the retrieval providers, the fetch
// cache, the AI capabilities and the processing pipeline.
package sourcetrace

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/ai/lexical"
	"github.com/poiesic/sourcetrace/ai/openai"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/enrich"
	"github.com/poiesic/sourcetrace/fetch"
	"github.com/poiesic/sourcetrace/pipeline"
	"github.com/poiesic/sourcetrace/retrieval"
	"github.com/poiesic/sourcetrace/storage"
	"github.com/poiesic/sourcetrace/storage/badger"
	"github.com/poiesic/sourcetrace/storage/memory"
)

// Engine analyzes documents with one set of long-lived services.
type Engine struct {
	cache    storage.FetchCache
	provider ai.Provider
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger     *slog.Logger
	monitor    pipeline.Monitor
	provider   ai.Provider
	primary    retrieval.Provider
	fallbacks  []retrieval.Provider
	override   bool
	httpClient *http.Client
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithMonitor observes every document run.
func WithMonitor(monitor pipeline.Monitor) EngineOption {
	return func(o *engineOptions) {
		o.monitor = monitor
	}
}

// WithAIProvider replaces the provider that the AI config would create.
// The engine closes it on Close.
func WithAIProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithProviders replaces the configured retrieval providers.
func WithProviders(primary retrieval.Provider, fallbacks ...retrieval.Provider) EngineOption {
	return func(o *engineOptions) {
		o.primary = primary
		o.fallbacks = fallbacks
		o.override = true
	}
}

// WithHTTPClient sets the client used to fetch sources.
func WithHTTPClient(client *http.Client) EngineOption {
	return func(o *engineOptions) {
		o.httpClient = client
	}
}

// NewEngine validates cfg and builds every component.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	logger := options.logger

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		var err error
		provider, err = newAIProvider(&cfg.AI)
		if err != nil {
			return nil, err
		}
	}

	cache, err := newCache(cfg.Cache, logger)
	if err != nil {
		provider.Close()
		return nil, err
	}

	closeAll := func() {
		if err := cache.Close(); err != nil {
			logger.Error("error closing fetch cache", "err", err)
		}
		if err := provider.Close(); err != nil {
			logger.Error("error closing AI provider", "err", err)
		}
	}

	primary, fallbacks := options.primary, options.fallbacks
	if !options.override {
		primary, fallbacks, err = retrieval.NewProviders(cfg.Retrieval, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
	}
	retriever, err := retrieval.NewOrchestrator(primary, fallbacks,
		retrieval.WithConfig(cfg.Retrieval),
		retrieval.WithLogger(logger))
	if err != nil {
		closeAll()
		return nil, err
	}

	fetchOpts := []fetch.Option{fetch.WithConfig(cfg.Fetch), fetch.WithLogger(logger)}
	if options.httpClient != nil {
		fetchOpts = append(fetchOpts, fetch.WithHTTPClient(options.httpClient))
	}
	fetcher, err := fetch.NewManager(cache, fetchOpts...)
	if err != nil {
		closeAll()
		return nil, err
	}

	pipeOpts := []pipeline.Option{
		pipeline.WithConfig(cfg.Pipeline),
		pipeline.WithLogger(logger),
		pipeline.WithMonitor(options.monitor),
	}
	if cfg.Enrich.Enabled {
		enricher, err := newEnricher(cfg, logger)
		if err != nil {
			closeAll()
			return nil, err
		}
		pipeOpts = append(pipeOpts, pipeline.WithEnricher(enricher))
	}
	pipe, err := pipeline.NewPipeline(provider, retriever, fetcher, pipeOpts...)
	if err != nil {
		closeAll()
		return nil, err
	}

	return &Engine{
		cache:    cache,
		provider: provider,
		pipeline: pipe,
		logger:   logger,
	}, nil
}

func newAIProvider(cfg *ai.Config) (ai.Provider, error) {
	switch cfg.Backend {
	case ai.BackendOpenAI:
		return openai.NewProvider(cfg)
	default:
		return lexical.NewProvider(cfg)
	}
}

func newCache(cfg CacheConfig, logger *slog.Logger) (storage.FetchCache, error) {
	if cfg.Backend != CacheBadger {
		return memory.NewFetchCache(), nil
	}
	opts := []badger.Option{badger.WithLogger(logger), badger.WithTTL(cfg.TTL)}
	if cfg.Path == "" {
		return badger.NewMemoryFetchCache(opts...)
	}
	return badger.OpenFetchCache(cfg.Path, opts...)
}

func newEnricher(cfg Config, logger *slog.Logger) (enrich.Enricher, error) {
	host, model, key := cfg.Enrich.Host, cfg.Enrich.Model, cfg.Enrich.APIKey
	if host == "" {
		host = cfg.AI.AnalyzerHost
	}
	if model == "" {
		model = cfg.AI.AnalyzerModel
	}
	if key == "" {
		key = cfg.AI.APIKey
	}
	llm, err := openai.NewChatModel(host, model, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create enrichment model: %w", err)
	}
	return enrich.NewLLMEnricher(llm,
		enrich.WithBatchSize(cfg.Enrich.BatchSize),
		enrich.WithLogger(logger))
}

// Analyze runs doc through the pipeline.
func (e *Engine) Analyze(ctx context.Context, doc core.Document) (*core.DocumentResult, error) {
	if err := core.ValidateDocument(&doc); err != nil {
		return nil, err
	}
	return e.pipeline.Process(ctx, doc)
}

// Close releases the pipeline, the fetch cache and the AI provider.
func (e *Engine) Close() error {
	e.pipeline.Close()

	// Close AI provider first
	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}

	if err := e.cache.Close(); err != nil {
		e.logger.Error("error closing fetch cache", "err", err)
		return err
	}
	return nil
}
