package evidence

import "fmt"

// Config holds the matcher tunables.
type Config struct {
	// ExactScore is the plagiarism score of every exact match.
	ExactScore float64 `yaml:"exact_score"`
	// MaxSnippetChars caps the source text attached to an exact match.
	MaxSnippetChars int `yaml:"max_snippet_chars"`
	// ExpandContext attaches one source sentence of context on each side.
	ExpandContext bool `yaml:"expand_context"`

	// ParaphraseMin and ParaphraseMax bound the word overlap band, [min, max).
	ParaphraseMin float64 `yaml:"paraphrase_min"`
	ParaphraseMax float64 `yaml:"paraphrase_max"`
	// PromoteSemantic and PromoteOverlap reclassify a paraphrase as exact
	// when either is exceeded.
	PromoteSemantic float64 `yaml:"promote_semantic"`
	PromoteOverlap  float64 `yaml:"promote_overlap"`
	// FallbackSnippetChars is the source prefix used when no window overlaps.
	FallbackSnippetChars int `yaml:"fallback_snippet_chars"`

	// IdeaScore and IdeaSemantic are the fixed scores of idea evidence.
	IdeaScore    float64 `yaml:"idea_score"`
	IdeaSemantic float64 `yaml:"idea_semantic"`
	// IdeaProvenance is the least semantic relatedness for an idea item to
	// name the most related source. Zero disables provenance.
	IdeaProvenance float64 `yaml:"idea_provenance"`

	// FingerprintK is the character k-gram length.
	FingerprintK int `yaml:"fingerprint_k"`
	// FingerprintWindow is the winnowing window size.
	FingerprintWindow int `yaml:"fingerprint_window"`

	// SourceParallelism bounds how many sources are matched at once.
	SourceParallelism int `yaml:"source_parallelism"`
}

// DefaultConfig returns the standard matcher tunables.
func DefaultConfig() Config {
	return Config{
		ExactScore:           0.99,
		MaxSnippetChars:      500,
		ExpandContext:        true,
		ParaphraseMin:        0.40,
		ParaphraseMax:        0.99,
		PromoteSemantic:      0.85,
		PromoteOverlap:       0.90,
		FallbackSnippetChars: 200,
		IdeaScore:            0.3,
		IdeaSemantic:         0.0,
		IdeaProvenance:       0.75,
		FingerprintK:         25,
		FingerprintWindow:    4,
		SourceParallelism:    4,
	}
}

// Validate checks ranges and orderings of the tunables.
func (c Config) Validate() error {
	unit := map[string]float64{
		"exact_score":      c.ExactScore,
		"paraphrase_min":   c.ParaphraseMin,
		"paraphrase_max":   c.ParaphraseMax,
		"promote_semantic": c.PromoteSemantic,
		"promote_overlap":  c.PromoteOverlap,
		"idea_score":       c.IdeaScore,
		"idea_semantic":    c.IdeaSemantic,
		"idea_provenance":  c.IdeaProvenance,
	}
	for name, v := range unit {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1]", ErrInvalidConfig, name)
		}
	}
	if c.ParaphraseMin >= c.ParaphraseMax {
		return fmt.Errorf("%w: paraphrase_min must be below paraphrase_max", ErrInvalidConfig)
	}
	if c.MaxSnippetChars <= 0 || c.FallbackSnippetChars <= 0 {
		return fmt.Errorf("%w: snippet sizes must be positive", ErrInvalidConfig)
	}
	if c.FingerprintK <= 0 || c.FingerprintWindow <= 0 {
		return fmt.Errorf("%w: fingerprint k and window must be positive", ErrInvalidConfig)
	}
	if c.SourceParallelism <= 0 {
		return fmt.Errorf("%w: source_parallelism must be positive", ErrInvalidConfig)
	}
	return nil
}
