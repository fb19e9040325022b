package lexical

import (
	"context"
	"math"
	"testing"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagger(t *testing.T) {
	ctx := context.Background()
	tagger := NewTagger()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "inflected verb after noun phrase",
			text: "The quick brown fox jumps.",
			want: []string{"DET", "NOUN", "NOUN", "NOUN", "VERB"},
		},
		{
			name: "auxiliary",
			text: "It is raining today.",
			want: []string{"PRON", "AUX", "NOUN", "NOUN"},
		},
		{
			name: "numbers and proper nouns",
			text: "Water boils at 100 degrees Celsius.",
			want: []string{"NOUN", "VERB", "ADP", "NUM", "NOUN", "PROPN"},
		},
		{
			name: "suffix rules",
			text: "Careful organization improved rapidly.",
			want: []string{"ADJ", "NOUN", "VERB", "ADV"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags, err := tagger.Tag(ctx, tt.text)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, tags)
				return
			}
			assert.Equal(t, tt.want, tags)
		})
	}
}

func TestClassifier(t *testing.T) {
	ctx := context.Background()
	classifier := NewClassifier(3)

	tests := []struct {
		sentence string
		want     bool
	}{
		{"The quick brown fox jumps.", true},
		{"Water boils at 100 degrees Celsius at sea level.", true},
		{"It is raining.", true},
		{"Introduction", false},
		{"Results and discussion", false},
		{"Is it?", false},
		{"Very quickly and silently.", false},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got, err := classifier.IsMeaningful(ctx, tt.sentence)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEmbedder(t *testing.T) {
	ctx := context.Background()
	embedder := NewEmbedder(128)

	vectors, err := embedder.EmbedTexts(ctx, []string{
		"Water boils at 100 degrees Celsius.",
		"Water boils at 100 degrees Celsius.",
		"Stock markets fell sharply on Monday.",
		"!!!",
	})
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	assert.Len(t, vectors[0], 128)
	assert.Equal(t, vectors[0], vectors[1])
	assert.InDelta(t, 1.0, norm(vectors[0]), 1e-5)
	assert.InDelta(t, 1.0, norm(vectors[3]), 1e-5, "punctuation still yields trigram features")
	assert.Greater(t, dot(vectors[0], vectors[1]), dot(vectors[0], vectors[2]))
}

func TestEmbedderRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEmbedder(16).EmbedText(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(ai.NewConfig())
	require.NoError(t, err)
	defer provider.Close()

	assert.NotNil(t, provider.Embedder())
	assert.NotNil(t, provider.Tagger())
	assert.NotNil(t, provider.Classifier())

	_, err = NewProvider(ai.NewConfig(ai.WithMinSentenceWords(0)))
	assert.Error(t, err)
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}

func norm(a []float32) float64 {
	return math.Sqrt(dot(a, a))
}
