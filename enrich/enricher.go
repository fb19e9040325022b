package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/sourcetrace/ai/openai"
	"github.com/poiesic/sourcetrace/core"
)

// Enricher looks up metadata for source URLs.
type Enricher interface {
	// Enrich returns metadata for every URL in urls. URLs it knows nothing
	// about map to core.UnknownSourceMetadata().
	Enrich(ctx context.Context, urls []string) map[string]core.SourceMetadata
}

// NoopEnricher reports every source as unknown.
type NoopEnricher struct{}

var _ Enricher = NoopEnricher{}

func (NoopEnricher) Enrich(_ context.Context, urls []string) map[string]core.SourceMetadata {
	out := make(map[string]core.SourceMetadata, len(urls))
	for _, u := range urls {
		out[u] = core.UnknownSourceMetadata()
	}
	return out
}

const metadataPrompt = `Provide bibliographic metadata for each URL you are given.

Output ONLY valid JSON of the form:
{"metadata":[{"url":"...","author":"...","publication_date":"...","document_type":"...","citation":"..."}]}

Rules:
- Return one entry per input URL, echoing the URL exactly.
- document_type is a short label such as "news article", "journal article", "blog post", "report" or "web page".
- citation is a single formatted reference string.
- Use "Unknown" for any field you cannot determine. Do not invent authors.`

type metadataResponse struct {
	Metadata []struct {
		URL             string `json:"url"`
		Author          string `json:"author"`
		PublicationDate string `json:"publication_date"`
		DocumentType    string `json:"document_type"`
		Citation        string `json:"citation"`
	} `json:"metadata"`
}

// LLMEnricher asks a language model for metadata in batches and remembers
// the answers for the lifetime of the enricher.
type LLMEnricher struct {
	model     llms.Model
	batchSize int
	logger    *slog.Logger

	mu    sync.Mutex
	known map[string]core.SourceMetadata
}

var _ Enricher = (*LLMEnricher)(nil)

// Option configures an LLMEnricher.
type Option func(*LLMEnricher) error

// WithLogger sets the enricher's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *LLMEnricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithBatchSize sets how many URLs are sent per request. Default: 10
func WithBatchSize(n int) Option {
	return func(e *LLMEnricher) error {
		if n <= 0 {
			return ErrInvalidBatchSize
		}
		e.batchSize = n
		return nil
	}
}

// NewLLMEnricher creates an enricher backed by model.
func NewLLMEnricher(model llms.Model, opts ...Option) (*LLMEnricher, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	e := &LLMEnricher{
		model:     model,
		batchSize: 10,
		logger:    slog.Default(),
		known:     make(map[string]core.SourceMetadata),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "enrich")
	return e, nil
}

func (e *LLMEnricher) Enrich(ctx context.Context, urls []string) map[string]core.SourceMetadata {
	out := make(map[string]core.SourceMetadata, len(urls))
	var missing []string
	e.mu.Lock()
	for _, u := range urls {
		if _, dup := out[u]; dup {
			continue
		}
		if m, ok := e.known[u]; ok {
			out[u] = m
			continue
		}
		out[u] = core.UnknownSourceMetadata()
		missing = append(missing, u)
	}
	e.mu.Unlock()

	for start := 0; start < len(missing); start += e.batchSize {
		if ctx.Err() != nil {
			break
		}
		end := min(start+e.batchSize, len(missing))
		batch := missing[start:end]
		found, err := e.lookup(ctx, batch)
		if err != nil {
			e.logger.Warn("metadata lookup failed", "urls", len(batch), "err", err)
			continue
		}
		e.mu.Lock()
		for _, u := range batch {
			if m, ok := found[u]; ok {
				out[u] = m
				e.known[u] = m
			}
		}
		e.mu.Unlock()
	}
	return out
}

func (e *LLMEnricher) lookup(ctx context.Context, urls []string) (map[string]core.SourceMetadata, error) {
	var resp metadataResponse
	if err := openai.GenerateJSON(ctx, e.model, metadataPrompt, strings.Join(urls, "\n"), &resp, e.logger); err != nil {
		return nil, fmt.Errorf("failed to generate metadata: %w", err)
	}
	found := make(map[string]core.SourceMetadata, len(resp.Metadata))
	for _, m := range resp.Metadata {
		u := strings.TrimSpace(m.URL)
		if u == "" {
			continue
		}
		found[u] = core.SourceMetadata{
			Author:          orUnknown(m.Author),
			PublicationDate: orUnknown(m.PublicationDate),
			DocumentType:    orUnknown(m.DocumentType),
			Citation:        orUnknown(m.Citation),
		}
	}
	return found, nil
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.UnknownMetadata
	}
	return s
}

// Apply attaches metadata to every source of sentences that has a URL.
// Sources whose URL is absent from meta are left untouched.
func Apply(sentences []core.CleanedSentence, meta map[string]core.SourceMetadata) {
	for i := range sentences {
		for j := range sentences[i].Sources {
			src := &sentences[i].Sources[j]
			if m, ok := meta[src.SourceURL]; ok && src.SourceURL != "" {
				src.Metadata = &m
			}
		}
	}
}

// URLs returns the distinct non-empty source URLs of sentences in first-seen order.
func URLs(sentences []core.CleanedSentence) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sentences {
		for _, src := range s.Sources {
			if src.SourceURL == "" || seen[src.SourceURL] {
				continue
			}
			seen[src.SourceURL] = true
			out = append(out, src.SourceURL)
		}
	}
	return out
}

