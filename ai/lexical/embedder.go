package lexical

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/textutil"
)

const trigramWeight = 0.5

// Embedder maps text onto a hashed bag of word unigrams and character
// trigrams. Identical text always yields identical vectors.
type Embedder struct {
	dim int
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates an embedder producing vectors of dim components.
func NewEmbedder(dim int) *Embedder {
	if dim < 8 {
		dim = 8
	}
	return &Embedder{dim: dim}
}

// EmbedText embeds a single text.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.embed(text), nil
}

// EmbedTexts embeds each text in order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.embed(text)
	}
	return out, nil
}

func (e *Embedder) embed(text string) []float32 {
	vec := make([]float64, e.dim)
	for _, w := range textutil.WordTokens(text) {
		weight := 1.0
		if textutil.IsStopWord(w) {
			weight = 0.25
		}
		vec[e.bucket("w:"+w)] += weight
	}

	norm := []rune(textutil.Normalize(text))
	for i := 0; i+3 <= len(norm); i++ {
		vec[e.bucket("c:"+string(norm[i:i+3]))] += trigramWeight
	}
	if len(norm) > 0 && len(norm) < 3 {
		vec[e.bucket("c:"+string(norm))] += trigramWeight
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	out := make([]float32, e.dim)
	if sum == 0 {
		return out
	}
	scale := 1 / math.Sqrt(sum)
	for i, v := range vec {
		out[i] = float32(v * scale)
	}
	return out
}

func (e *Embedder) bucket(feature string) int {
	h := fnv.New64a()
	h.Write([]byte(strings.ToLower(feature)))
	return int(h.Sum64() % uint64(e.dim))
}
