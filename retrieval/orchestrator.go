package retrieval

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/poiesic/sourcetrace/core"
)

// Budget counts the primary queries a document may still spend in budget
// mode. It is safe for concurrent use by the blocks of one document.
type Budget struct {
	remaining atomic.Int64
}

// NewBudget returns a budget allowing n primary queries.
func NewBudget(n int) *Budget {
	b := &Budget{}
	b.remaining.Store(int64(n))
	return b
}

// Take consumes one query and reports whether one was available.
// A nil budget never has queries left.
func (b *Budget) Take() bool {
	if b == nil {
		return false
	}
	for {
		n := b.remaining.Load()
		if n <= 0 {
			return false
		}
		if b.remaining.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// Remaining returns the number of queries left.
func (b *Budget) Remaining() int {
	if b == nil {
		return 0
	}
	return int(b.remaining.Load())
}

// Orchestrator turns a query into a deduplicated candidate list by
// combining a primary provider with ordered fallbacks.
type Orchestrator struct {
	primary   Provider
	fallbacks []Provider
	config    Config
	logger    *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithConfig sets mode, top-K, fallback threshold and budget.
func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// NewOrchestrator creates an orchestrator. primary may be nil when at least
// one fallback is given; the first fallback is then queried first.
func NewOrchestrator(primary Provider, fallbacks []Provider, opts ...Option) (*Orchestrator, error) {
	if primary == nil && len(fallbacks) == 0 {
		return nil, ErrNoProviders
	}
	o := &Orchestrator{
		primary:   primary,
		fallbacks: fallbacks,
		config:    DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "retrieval")
	return o, nil
}

// Mode returns the configured policy mode.
func (o *Orchestrator) Mode() Mode {
	return o.config.Mode
}

// NewBudget returns a fresh per-document budget sized from the config.
func (o *Orchestrator) NewBudget() *Budget {
	return NewBudget(o.config.Budget)
}

// Retrieve returns candidates for query. Provider failures are logged and
// treated as empty results; only context cancellation is reported. budget
// is consulted in budget mode and ignored in cascade mode.
func (o *Orchestrator) Retrieve(ctx context.Context, query string, budget *Budget) ([]core.Candidate, error) {
	var out []core.Candidate
	if o.config.Mode == ModeBudget {
		out = o.budgeted(ctx, query, budget)
	} else {
		out = o.cascade(ctx, query)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *Orchestrator) cascade(ctx context.Context, query string) []core.Candidate {
	var out []core.Candidate
	seen := make(map[string]bool)

	if o.primary != nil {
		results := o.search(ctx, o.primary, query)
		out = appendUnseen(out, seen, results)
		if !o.needsFallback(results) {
			return out
		}
		o.logger.Debug("falling back from primary provider",
			"provider", o.primary.Name(),
			"results", len(results))
	}

	for _, p := range o.fallbacks {
		if ctx.Err() != nil {
			return out
		}
		before := len(out)
		out = appendUnseen(out, seen, o.search(ctx, p, query))
		if len(out) > before {
			break
		}
	}
	return out
}

func (o *Orchestrator) budgeted(ctx context.Context, query string, budget *Budget) []core.Candidate {
	var out []core.Candidate
	seen := make(map[string]bool)

	if o.primary != nil && budget.Take() {
		out = appendUnseen(out, seen, o.search(ctx, o.primary, query))
	}
	for _, p := range o.fallbacks {
		if ctx.Err() != nil {
			return out
		}
		before := len(out)
		out = appendUnseen(out, seen, o.search(ctx, p, query))
		if len(out) > before {
			break
		}
	}
	return out
}

// needsFallback reports whether the primary's results warrant a fallback:
// nothing came back or the best confidence is under the threshold.
func (o *Orchestrator) needsFallback(results []core.Candidate) bool {
	if len(results) == 0 {
		return true
	}
	best := 0.0
	for _, c := range results {
		if conf := c.ConfidenceOrDefault(); conf > best {
			best = conf
		}
	}
	return best < o.config.FallbackThreshold
}

// search calls p and converts any failure into an empty result.
func (o *Orchestrator) search(ctx context.Context, p Provider, query string) []core.Candidate {
	results, err := p.Search(ctx, query, o.config.TopK)
	switch {
	case err == nil:
	case errors.Is(err, ErrProviderNotConfigured):
		o.logger.Debug("provider not configured", "provider", p.Name())
		return nil
	case ctx.Err() != nil:
		return nil
	default:
		o.logger.Warn("provider search failed", "provider", p.Name(), "err", err)
		return nil
	}
	if len(results) > o.config.TopK {
		results = results[:o.config.TopK]
	}
	for i := range results {
		if results[i].Origin == "" {
			results[i].Origin = p.Name()
		}
	}
	return results
}

// appendUnseen appends candidates whose normalized URL is not in seen.
func appendUnseen(out []core.Candidate, seen map[string]bool, results []core.Candidate) []core.Candidate {
	for _, c := range Dedupe(results) {
		key := NormalizeURL(c.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
