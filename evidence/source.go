package evidence

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/textutil"
)

// Source is fetched source text prepared once for repeated matching.
type Source struct {
	URL  string
	Text string

	norm      string
	offsets   []int
	sentences []textutil.Sentence
	fields    []string // whitespace tokens as written
	tokens    []string // fields lowercased with punctuation trimmed, "" when nothing is left
	wordSet   map[string]struct{}

	vecOnce sync.Once
	vec     []float32
	vecErr  error
}

// NewSource prepares text fetched from url for matching.
func NewSource(url, text string) *Source {
	s := &Source{URL: url, Text: text}
	s.norm, s.offsets = textutil.NormalizeWithMap(text)
	s.sentences = textutil.SplitSentences(text)
	s.fields = strings.Fields(text)
	s.tokens = make([]string, len(s.fields))
	s.wordSet = make(map[string]struct{}, len(s.fields))
	for i, f := range s.fields {
		if toks := textutil.Tokenize(f); len(toks) == 1 {
			s.tokens[i] = toks[0]
			s.wordSet[toks[0]] = struct{}{}
		}
	}
	return s
}

// Empty reports whether the source has no usable text.
func (s *Source) Empty() bool {
	return s.norm == ""
}

// vector embeds a prefix of the source once and caches the result.
func (s *Source) vector(ctx context.Context, embedder ai.Embedder, maxChars int) ([]float32, error) {
	s.vecOnce.Do(func() {
		s.vec, s.vecErr = embedder.EmbedText(ctx, textutil.TruncateAtWord(s.Text, maxChars))
	})
	return s.vec, s.vecErr
}
