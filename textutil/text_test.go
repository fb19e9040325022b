package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordTokens(t *testing.T) {
	assert.Equal(t, []string{"the", "fox", "jumps", "3", "times"}, WordTokens("The fox, jumps 3 times!"))
	assert.Empty(t, WordTokens("!!! ..."))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 5, WordCount("The fox, jumps 3 times!"))
	assert.Equal(t, 0, WordCount(""))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "it's"}, Tokenize("Hello, (World) it's"))
}

func TestContentWords(t *testing.T) {
	assert.Equal(t, []string{"quick", "fox"}, ContentWords("The quick fox is"))
}

func TestNGrams(t *testing.T) {
	tokens := []string{"a", "b", "c", "d"}
	assert.Equal(t, []string{"a b c", "b c d"}, NGrams(tokens, 3))
	assert.Nil(t, NGrams(tokens, 5))
	assert.Nil(t, NGrams(tokens, 0))
}

func TestJaccard(t *testing.T) {
	a := Set([]string{"x", "y", "z"})
	b := Set([]string{"y", "z", "w"})
	assert.InDelta(t, 0.5, Jaccard(a, b), 1e-9)
	assert.InDelta(t, 1.0, Jaccard(a, a), 1e-9)
	assert.Zero(t, Jaccard(map[string]struct{}{}, map[string]struct{}{}))
}

func TestOverlap(t *testing.T) {
	a := Set([]string{"x", "y"})
	b := Set([]string{"y", "z", "w"})
	assert.InDelta(t, 0.5, Overlap(a, b), 1e-9)
	assert.Zero(t, Overlap(map[string]struct{}{}, b))
}
