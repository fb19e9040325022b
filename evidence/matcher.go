package evidence

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/core"
)

// BlockMatcher produces the evidence list for one block's sentences against
// that block's fetched sources.
type BlockMatcher struct {
	screener   *Screener
	exact      *ExactMatcher
	paraphrase *ParaphraseMatcher
	idea       *IdeaMatcher
	config     Config
	logger     *slog.Logger
}

// Option configures a BlockMatcher.
type Option func(*BlockMatcher) error

// WithLogger sets the logger for the matcher.
func WithLogger(logger *slog.Logger) Option {
	return func(b *BlockMatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// WithConfig sets the matcher tunables. The config is validated.
func WithConfig(config Config) Option {
	return func(b *BlockMatcher) error {
		if err := config.Validate(); err != nil {
			return err
		}
		b.config = config
		return nil
	}
}

// NewBlockMatcher wires the screener and the three matchers together.
// The embedder is used for idea provenance only and may be nil.
func NewBlockMatcher(classifier ai.SentenceClassifier, scorer SemanticScorer, embedder ai.Embedder, opts ...Option) (*BlockMatcher, error) {
	b := &BlockMatcher{
		config: DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.logger = b.logger.With("component", "evidence")

	var err error
	if b.screener, err = NewScreener(classifier, b.logger); err != nil {
		return nil, err
	}
	if b.exact, err = NewExactMatcher(scorer, b.config); err != nil {
		return nil, err
	}
	if b.paraphrase, err = NewParaphraseMatcher(scorer, b.config); err != nil {
		return nil, err
	}
	b.idea = NewIdeaMatcher(embedder, b.config, b.logger)
	return b, nil
}

type hit struct {
	sentence int
	item     core.EvidenceItem
}

// Match runs exact matching of every meaningful sentence against every
// source, then paraphrase matching of the sentences exact matching left
// unclaimed, then emits one idea item for each sentence still unclaimed.
//
// Output is ordered by sentence; within a sentence exact items precede
// paraphrase items, each in source order. Empty sentences are ignored.
func (b *BlockMatcher) Match(ctx context.Context, sentences []string, sources []*Source) ([]core.EvidenceItem, error) {
	kept := sentences[:0:0]
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			kept = append(kept, s)
		}
	}
	sentences = kept

	meaningful := make([]bool, len(sentences))
	for i, s := range sentences {
		meaningful[i] = b.screener.Meaningful(ctx, s)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exactHits, err := b.eachSource(ctx, sentences, sources, meaningful, func(ctx context.Context, s string, src *Source) (core.EvidenceItem, bool) {
		return b.exact.Match(ctx, s, src)
	})
	if err != nil {
		return nil, err
	}

	claimed := make([]bool, len(sentences))
	for _, hits := range exactHits {
		for _, h := range hits {
			claimed[h.sentence] = true
		}
	}
	remaining := make([]bool, len(sentences))
	for i := range sentences {
		remaining[i] = meaningful[i] && !claimed[i]
	}

	paraHits, err := b.eachSource(ctx, sentences, sources, remaining, func(ctx context.Context, s string, src *Source) (core.EvidenceItem, bool) {
		return b.paraphrase.Match(ctx, s, src)
	})
	if err != nil {
		return nil, err
	}
	for _, hits := range paraHits {
		for _, h := range hits {
			claimed[h.sentence] = true
		}
	}

	var unmatched []string
	var unmatchedAt []int
	for i, s := range sentences {
		if !claimed[i] {
			unmatched = append(unmatched, s)
			unmatchedAt = append(unmatchedAt, i)
		}
	}
	ideas := b.idea.Match(ctx, unmatched, sources)

	bySentence := make([][]core.EvidenceItem, len(sentences))
	for _, group := range [][][]hit{exactHits, paraHits} {
		for _, hits := range group {
			for _, h := range hits {
				bySentence[h.sentence] = append(bySentence[h.sentence], h.item)
			}
		}
	}
	for k, i := range unmatchedAt {
		bySentence[i] = append(bySentence[i], ideas[k])
	}

	var out []core.EvidenceItem
	for _, items := range bySentence {
		out = append(out, items...)
	}

	b.logger.Debug("block matched",
		"sentences", len(sentences),
		"sources", len(sources),
		"evidence", len(out),
		"idea", len(ideas))
	return out, nil
}

// eachSource applies match to every selected sentence against every source,
// running up to SourceParallelism sources at once. The result is indexed by
// source and each source's hits are in sentence order.
func (b *BlockMatcher) eachSource(ctx context.Context, sentences []string, sources []*Source, selected []bool,
	match func(context.Context, string, *Source) (core.EvidenceItem, bool)) ([][]hit, error) {

	picked := make([]int, 0, len(selected))
	for i, ok := range selected {
		if ok {
			picked = append(picked, i)
		}
	}
	results := make([][]hit, len(sources))
	if len(picked) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.SourceParallelism)
	for si, src := range sources {
		if src == nil || src.Empty() {
			continue
		}
		g.Go(func() error {
			for _, i := range picked {
				if err := gctx.Err(); err != nil {
					return err
				}
				if item, ok := match(gctx, sentences[i], src); ok {
					results[si] = append(results[si], hit{sentence: i, item: item})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
