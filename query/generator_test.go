package query

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sourcetrace/ai/mock"
	"github.com/poiesic/sourcetrace/core"
)

// topicEmbedder maps texts onto a two-topic space: water and everything else.
func topicEmbedder() *mock.MockEmbedder {
	return mock.NewMockEmbedder().WithEmbedTextsFunc(func(_ context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i, text := range texts {
			water := float32(strings.Count(strings.ToLower(text), "water"))
			other := float32(1)
			if i == len(texts)-1 {
				// The whole block leans towards water.
				out[i] = []float32{5, 1}
				continue
			}
			out[i] = []float32{water, other}
		}
		return out, nil
	})
}

func TestGenerate_SelectsKeySentencesInOrder(t *testing.T) {
	g, err := NewGenerator(topicEmbedder())
	require.NoError(t, err)

	block := core.Block{
		ID: "block_0",
		Text: "Water boils at 100 degrees. Cats sleep a lot. Water freezes at zero [3]. " +
			"Dogs bark loudly. Sea water contains salt (Smith et al., 2004).",
	}
	q := g.Generate(context.Background(), block)

	assert.Equal(t, []string{
		"Water boils at 100 degrees.",
		"Water freezes at zero .",
		"Sea water contains salt .",
	}, q.KeySentences)
	assert.True(t, strings.HasPrefix(q.Text, DefaultTemplate))
	assert.Equal(t, DefaultTemplate+"Water boils at 100 degrees. Water freezes at zero . Sea water contains salt .", q.Text)
}

func TestGenerate_Truncates(t *testing.T) {
	g, err := NewGenerator(mock.NewMockEmbedder(), WithConfig(Config{MaxSentences: 3, MaxChars: 20, Template: "T: "}))
	require.NoError(t, err)

	q := g.Generate(context.Background(), core.Block{Text: "Photosynthesis converts sunlight into energy."})
	assert.Equal(t, "T: Photosynthesis", q.Text)
	assert.Len(t, q.KeySentences, 1)
}

func TestGenerate_EmptyBlock(t *testing.T) {
	g, err := NewGenerator(mock.NewMockEmbedder())
	require.NoError(t, err)

	q := g.Generate(context.Background(), core.Block{Text: "  \n\t "})
	assert.Equal(t, DefaultTemplate, q.Text)
	assert.Empty(t, q.KeySentences)
}

func TestGenerate_EmbeddingFailureUsesLeadingSentences(t *testing.T) {
	embedder := mock.NewMockEmbedder().WithEmbedTextsFunc(func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	})
	g, err := NewGenerator(embedder)
	require.NoError(t, err)

	q := g.Generate(context.Background(), core.Block{Text: "One is here. Two is here. Three is here. Four is here."})
	assert.Equal(t, []string{"One is here.", "Two is here.", "Three is here."}, q.KeySentences)
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewGenerator(mock.NewMockEmbedder(), WithConfig(Config{MaxSentences: 0, MaxChars: 10, Template: "x"}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
