package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Tagger assigns a part-of-speech tag to every token of a text.
// Implementations must be thread-safe for concurrent use.
type Tagger interface {
	// Tag returns one Universal POS tag per token, in token order.
	// Returns an empty slice for text without tokens.
	Tag(ctx context.Context, text string) ([]string, error)
}

// SentenceClassifier decides whether a sentence carries enough structure
// to be worth matching verbatim.
// Implementations must be thread-safe for concurrent use.
type SentenceClassifier interface {
	// IsMeaningful reports whether the sentence has a finite verb and a
	// subject. Fragments, headings and bare lists are not meaningful.
	IsMeaningful(ctx context.Context, sentence string) (bool, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the capability instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Tagger returns the part-of-speech tagging service.
	Tagger() Tagger

	// Classifier returns the sentence meaningfulness service.
	Classifier() SentenceClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
