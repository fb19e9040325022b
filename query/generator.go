package query

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/similarity"
	"github.com/poiesic/sourcetrace/textutil"
)

// Generator builds retrieval queries from blocks.
type Generator struct {
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator) error

// WithLogger sets the generator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithConfig sets the generator's settings.
func WithConfig(cfg Config) Option {
	return func(g *Generator) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		g.config = cfg
		return nil
	}
}

// NewGenerator creates a query generator backed by embedder.
func NewGenerator(embedder ai.Embedder, opts ...Option) (*Generator, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	g := &Generator{
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	g.logger = g.logger.With("component", "query")
	return g, nil
}

// Generate returns the query for block. An empty block yields the bare
// template and no key sentences. When embedding fails the first sentences
// of the block are used instead.
func (g *Generator) Generate(ctx context.Context, block core.Block) core.Query {
	if strings.TrimSpace(block.Text) == "" {
		return core.Query{Text: g.config.Template, KeySentences: []string{}}
	}

	sentences := textutil.SentenceTexts(textutil.CleanCitations(block.Text))
	if len(sentences) == 0 {
		return core.Query{Text: g.config.Template, KeySentences: []string{}}
	}

	keys := g.keySentences(ctx, block.ID, sentences)
	joined := textutil.TruncateAtWord(strings.Join(keys, " "), g.config.MaxChars)
	return core.Query{
		Text:         g.config.Template + joined,
		KeySentences: keys,
	}
}

// keySentences picks the sentences most similar to the whole block, in
// document order.
func (g *Generator) keySentences(ctx context.Context, blockID string, sentences []string) []string {
	n := g.config.MaxSentences
	if len(sentences) <= n {
		return sentences
	}

	texts := make([]string, 0, len(sentences)+1)
	texts = append(texts, sentences...)
	texts = append(texts, strings.Join(sentences, " "))

	vectors, err := g.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(texts) {
		g.logger.Warn("failed to embed block sentences, using leading sentences",
			"block_id", blockID,
			"err", err)
		return sentences[:n]
	}

	blockVec := vectors[len(sentences)]
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i := range sentences {
		cos, ok := similarity.Cosine(vectors[i], blockVec)
		if !ok {
			cos = -1
		}
		ranked[i] = scored{idx: i, score: cos}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	picked := make([]int, 0, n)
	for _, r := range ranked[:n] {
		picked = append(picked, r.idx)
	}
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = sentences[idx]
	}
	return out
}
