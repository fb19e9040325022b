package lexical

import (
	"log/slog"

	"github.com/poiesic/sourcetrace/ai"
)

// Provider implements ai.Provider with the lexical capabilities.
type Provider struct {
	embedder   *Embedder
	tagger     *Tagger
	classifier *Classifier
	logger     *slog.Logger
}

// NewProvider creates a lexical provider from config.
// Only Dimensions and MinSentenceWords are consulted.
//
// Returns ai.Provider interface to enforce abstraction.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Provider{
		embedder:   NewEmbedder(config.Dimensions),
		tagger:     NewTagger(),
		classifier: NewClassifier(config.MinSentenceWords),
		logger:     slog.Default().With("component", "lexical-provider"),
	}, nil
}

// Embedder returns the hashed bag-of-words embedder.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Tagger returns the rule-based tagger.
func (p *Provider) Tagger() ai.Tagger {
	return p.tagger
}

// Classifier returns the tag-based sentence classifier.
func (p *Provider) Classifier() ai.SentenceClassifier {
	return p.classifier
}

// Close is a no-op; the lexical capabilities hold no resources.
func (p *Provider) Close() error {
	p.logger.Debug("closing lexical provider")
	return nil
}
