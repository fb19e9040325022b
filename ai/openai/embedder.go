package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/sourcetrace/ai"
)

// embedBatchSize caps how many sentences go into one embeddings request.
const embedBatchSize = 64

// Embedder implements ai.Embedder against an OpenAI-compatible embeddings
// endpoint. Sentence batches are split into requests of embedBatchSize and
// blank inputs map to empty vectors without a round trip.
type Embedder struct {
	embedder embeddings.Embedder
	model    string
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken(token),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(embedBatchSize))
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: embedder,
		model:    config.EmbeddingModel,
		logger:   slog.Default().With("component", "openai-embedder", "model", config.EmbeddingModel),
	}, nil
}

// NewEmbedder creates an embedder from config.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText embeds a single sentence.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts embeds texts, preserving order. Blank entries yield empty vectors.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	pending := make([]string, 0, len(texts))
	index := make([]int, 0, len(texts))
	for i, t := range texts {
		out[i] = []float32{}
		if strings.TrimSpace(t) == "" {
			continue
		}
		pending = append(pending, t)
		index = append(index, i)
	}
	if len(pending) == 0 {
		return out, nil
	}

	e.logger.Debug("embedding sentences", "count", len(pending), "skipped", len(texts)-len(pending))
	vectors, err := e.embedder.EmbedDocuments(ctx, pending)
	if err != nil {
		e.logger.Warn("failed to generate embeddings", "count", len(pending), "err", err)
		return nil, err
	}
	if len(vectors) != len(pending) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingMismatch, len(vectors), len(pending))
	}
	for j, i := range index {
		out[i] = vectors[j]
	}
	return out, nil
}
