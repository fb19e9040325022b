package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/consolidate"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/enrich"
	"github.com/poiesic/sourcetrace/evidence"
	"github.com/poiesic/sourcetrace/fetch"
	"github.com/poiesic/sourcetrace/query"
	"github.com/poiesic/sourcetrace/retrieval"
	"github.com/poiesic/sourcetrace/segment"
	"github.com/poiesic/sourcetrace/similarity"
	"github.com/poiesic/sourcetrace/textutil"
)

// releaseTimeout bounds how long Close waits for pool workers to exit.
const releaseTimeout = 5 * time.Second

// Pipeline orchestrates evidence discovery for whole documents.
type Pipeline struct {
	config       Config
	retriever    *retrieval.Orchestrator
	fetcher      *fetch.Manager
	queries      *query.Generator
	engine       *similarity.Engine
	matcher      *evidence.BlockMatcher
	fingerprints *evidence.FingerprintMatcher
	consolidator *consolidate.Consolidator
	enricher     enrich.Enricher
	pool         *ants.Pool
	monitor      Monitor
	closed       atomic.Bool
	closeOnce    sync.Once
	logger       *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithConfig sets the settings of every stage.
func WithConfig(config Config) Option {
	return func(p *Pipeline) error {
		if err := config.Validate(); err != nil {
			return err
		}
		p.config = config
		return nil
	}
}

// WithMonitor installs hooks that observe each run.
func WithMonitor(monitor Monitor) Option {
	return func(p *Pipeline) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		p.monitor = monitor
		return nil
	}
}

// WithEnricher attaches source metadata to consolidated sentences.
// Without an enricher no metadata is attached.
func WithEnricher(enricher enrich.Enricher) Option {
	return func(p *Pipeline) error {
		p.enricher = enricher
		return nil
	}
}

// NewPipeline creates a pipeline. The AI provider's capabilities are
// wrapped so that every call runs on the pipeline's worker pool.
func NewPipeline(
	provider ai.Provider,
	retriever *retrieval.Orchestrator,
	fetcher *fetch.Manager,
	opts ...Option,
) (*Pipeline, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	p := &Pipeline{
		config:    DefaultConfig(),
		retriever: retriever,
		fetcher:   fetcher,
		monitor:   &noopMonitor{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	p.logger = p.logger.With("component", "pipeline")

	pool, err := ants.NewPool(p.config.Workers)
	if err != nil {
		return nil, err
	}
	p.pool = pool

	if err := p.build(provider); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// build creates the stage services over pooled capabilities.
func (p *Pipeline) build(provider ai.Provider) error {
	off := offloader{pool: p.pool}
	embedder := &pooledEmbedder{offloader: off, inner: provider.Embedder()}
	tagger := &pooledTagger{offloader: off, inner: provider.Tagger()}
	classifier := &pooledClassifier{offloader: off, inner: provider.Classifier()}

	var err error
	p.queries, err = query.NewGenerator(embedder,
		query.WithConfig(p.config.Query),
		query.WithLogger(p.logger))
	if err != nil {
		return err
	}
	p.engine, err = similarity.NewEngine(embedder, tagger,
		similarity.WithConfig(p.config.Similarity),
		similarity.WithLogger(p.logger))
	if err != nil {
		return err
	}
	p.matcher, err = evidence.NewBlockMatcher(classifier, p.engine, embedder,
		evidence.WithConfig(p.config.Evidence),
		evidence.WithLogger(p.logger))
	if err != nil {
		return err
	}
	p.fingerprints = evidence.NewFingerprintMatcher(p.config.Evidence.FingerprintK, p.config.Evidence.FingerprintWindow)
	p.consolidator, err = consolidate.New(p.config.Consolidate, p.logger)
	return err
}

// Process analyses doc. Every block and every sentence of every block
// appears in the result. Only context cancellation produces an error.
func (p *Pipeline) Process(ctx context.Context, doc core.Document) (*core.DocumentResult, error) {
	if p.closed.Load() {
		return nil, ErrPipelineClosed
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	raw := rawText(doc)
	logger := p.logger.With("doc_id", doc.ID)
	started := time.Now()

	p.monitor.Start(doc.ID)
	blocks := segment.SegmentDocument(doc, p.config.Segment)
	p.monitor.BlocksSegmented(blocks)
	logger.Info("document segmented", "blocks", len(blocks))

	budget := p.retriever.NewBudget()
	results := make([]core.BlockResult, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.MaxConcurrentBlocks)
	for i, block := range blocks {
		g.Go(func() error {
			res, err := p.processBlock(gctx, block, raw, budget)
			if err != nil {
				return err
			}
			results[i] = res
			p.monitor.BlockMatched(res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("document processing aborted", "err", err)
		return nil, err
	}

	out := &core.DocumentResult{DocID: doc.ID, Blocks: results}
	switch p.consolidator.Mode() {
	case consolidate.ModePriority:
		out.Verdicts = p.consolidator.PriorityBlocks(results, raw)
	default:
		out.Sentences = p.consolidator.TopNBlocks(results, raw)
		if p.enricher != nil {
			enrich.Apply(out.Sentences, p.enricher.Enrich(ctx, enrich.URLs(out.Sentences)))
		}
	}

	p.monitor.Finish(out)
	logger.Info("document processed",
		"blocks", len(results),
		"sentences", len(out.Sentences),
		"verdicts", len(out.Verdicts),
		"elapsed", time.Since(started))
	return out, nil
}

// processBlock runs query, retrieval, fetching and matching for one block.
func (p *Pipeline) processBlock(ctx context.Context, block core.Block, raw string, budget *retrieval.Budget) (core.BlockResult, error) {
	logger := p.logger.With("block_id", block.ID)
	res := core.BlockResult{
		BlockID:    block.ID,
		Section:    block.Section,
		Candidates: []core.Candidate{},
		Matches:    []core.SourceMatch{},
	}

	res.Query = p.queries.Generate(ctx, block)
	candidates, err := p.retriever.Retrieve(ctx, res.Query.Text, budget)
	if err != nil {
		return res, err
	}
	res.Candidates = candidates
	p.monitor.CandidatesRetrieved(block.ID, res.Query, candidates)
	logger.Debug("candidates retrieved", "candidates", len(candidates))

	fetched := p.fetcher.FetchCandidates(ctx, candidates, p.fetcher.PerBlock())
	if err := ctx.Err(); err != nil {
		return res, err
	}

	sources := make([]*evidence.Source, 0, len(candidates))
	for i, c := range candidates {
		r := fetched[i]
		p.monitor.SourceFetched(block.ID, r)
		if r.SkippedAsPDF {
			res.SkippedPDFURLs = append(res.SkippedPDFURLs, c.URL)
		}
		// Unfetchable sources are still judged on the provider's snippet.
		text := r.TextOrEmpty()
		if !r.HasText() {
			text = c.Snippet
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		sources = append(sources, evidence.NewSource(c.URL, text))
		res.Matches = append(res.Matches, p.scoreSource(ctx, block, c, r, text))
	}
	sort.SliceStable(res.Matches, func(a, b int) bool {
		return res.Matches[a].Scores.Combined > res.Matches[b].Scores.Combined
	})
	if len(res.Matches) > p.config.MaxMatches {
		res.Matches = res.Matches[:p.config.MaxMatches]
	}

	// blocks built outside SegmentDocument carry no sentence assignment
	sentences := block.Sentences
	if sentences == nil {
		sentences = textutil.SentenceTexts(block.Text)
	}
	items, err := p.matcher.Match(ctx, sentences, sources)
	if err != nil {
		return res, err
	}
	for i := range items {
		off := consolidate.MapOffsets(raw, items[i].Sentence)
		items[i].DocumentOffsets = &off
		if err := core.ValidateEvidence(&items[i]); err != nil {
			logger.Warn("inconsistent evidence item", "sentence", items[i].Sentence, "err", err)
		}
	}
	res.Evidence = items

	logger.Debug("block matched",
		"sources", len(sources),
		"evidence", len(items),
		"skipped", len(res.SkippedPDFURLs))
	return res, nil
}

// scoreSource measures the whole block against one source.
func (p *Pipeline) scoreSource(ctx context.Context, block core.Block, c core.Candidate, r core.FetchResult, text string) core.SourceMatch {
	return core.SourceMatch{
		Candidate:       c,
		Fetched:         r.HasText(),
		SkippedAsPDF:    r.SkippedAsPDF,
		CoveragePercent: p.fingerprints.Coverage(block.Text, text),
		Scores:          p.engine.Score(ctx, block.Text, text),
	}
}

// Close releases the worker pool. The pipeline cannot be used afterwards.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		if p.pool != nil {
			if err := p.pool.ReleaseTimeout(releaseTimeout); err != nil {
				p.logger.Warn("worker pool did not drain", "err", err)
			}
		}
	})
}

// rawText is the text offsets are reported against: the document text, or
// its sections joined by blank lines when the document has no text.
func rawText(doc core.Document) string {
	if doc.Text != "" || len(doc.Sections) == 0 {
		return doc.Text
	}
	parts := make([]string, 0, len(doc.Sections))
	for _, s := range doc.Sections {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, "\n\n")
}
