package similarity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/core"
)

// Engine computes similarity scores between text pairs.
// It is safe for concurrent use when its capabilities are.
type Engine struct {
	embedder ai.Embedder
	tagger   ai.Tagger
	config   Config
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithConfig sets weights and thresholds. The config is validated.
func WithConfig(config Config) Option {
	return func(e *Engine) error {
		if err := config.Validate(); err != nil {
			return err
		}
		e.config = config
		return nil
	}
}

// NewEngine creates a similarity engine over the given capabilities.
func NewEngine(embedder ai.Embedder, tagger ai.Tagger, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if tagger == nil {
		return nil, ErrTaggerRequired
	}

	e := &Engine{
		embedder: embedder,
		tagger:   tagger,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "similarity")
	return e, nil
}

// Thresholds returns the label thresholds in use.
func (e *Engine) Thresholds() Thresholds {
	return e.config.Thresholds
}

// Score computes every signal for a and b and their weighted combination.
// Empty input on either side yields all-zero scores labelled low.
func (e *Engine) Score(ctx context.Context, a, b string) core.SimilarityScores {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return core.SimilarityScores{Label: LabelLow}
	}

	s := core.SimilarityScores{
		Lexical:     Lexical(a, b),
		Grammatical: e.grammatical(ctx, a, b),
		Semantic:    e.Semantic(ctx, a, b),
		Fingerprint: Fingerprint(a, b),
		Exact:       Exact(a, b),
	}
	w := e.config.Weights
	s.Combined = core.Clamp01(w.Lexical*s.Lexical +
		w.Grammatical*s.Grammatical +
		w.Semantic*s.Semantic +
		w.Fingerprint*s.Fingerprint +
		w.Exact*s.Exact)
	s.Label = e.config.Thresholds.Label(s.Combined)
	return s
}

// Semantic returns (cos+1)/2 of the embeddings of a and b.
// It returns 0 for empty input, on embedding failure, or for degenerate vectors.
func (e *Engine) Semantic(ctx context.Context, a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}
	vectors, err := e.embedder.EmbedTexts(ctx, []string{a, b})
	if err != nil {
		e.logger.Warn("semantic signal unavailable", "err", err)
		return 0
	}
	if len(vectors) != 2 {
		e.logger.Warn("semantic signal unavailable", "vectors", len(vectors))
		return 0
	}
	cos, ok := Cosine(vectors[0], vectors[1])
	if !ok {
		return 0
	}
	return SemanticFromCosine(cos)
}

func (e *Engine) grammatical(ctx context.Context, a, b string) float64 {
	tagsA, err := e.tagger.Tag(ctx, a)
	if err != nil {
		e.logger.Warn("grammatical signal unavailable", "err", err)
		return 0
	}
	tagsB, err := e.tagger.Tag(ctx, b)
	if err != nil {
		e.logger.Warn("grammatical signal unavailable", "err", err)
		return 0
	}
	return Grammatical(tagsA, tagsB)
}
