package evidence

import (
	"context"
	"strings"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
)

// ParaphraseMatcher finds sentences whose words largely reappear in a source
// without being copied verbatim.
type ParaphraseMatcher struct {
	scorer SemanticScorer
	config Config
}

// NewParaphraseMatcher creates a paraphrase matcher.
func NewParaphraseMatcher(scorer SemanticScorer, config Config) (*ParaphraseMatcher, error) {
	if scorer == nil {
		return nil, ErrEngineRequired
	}
	return &ParaphraseMatcher{scorer: scorer, config: config}, nil
}

// Overlap returns the fraction of the sentence's distinct words found in src.
func (m *ParaphraseMatcher) Overlap(sentence string, src *Source) float64 {
	words := textutil.WordSet(sentence)
	if len(words) == 0 {
		return 0
	}
	shared := 0
	for w := range words {
		if _, ok := src.wordSet[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(words))
}

// Match reports paraphrase evidence when the word overlap falls within
// [ParaphraseMin, ParaphraseMax). The item is promoted to exact_match when
// semantic similarity exceeds PromoteSemantic or overlap exceeds PromoteOverlap.
func (m *ParaphraseMatcher) Match(ctx context.Context, sentence string, src *Source) (core.EvidenceItem, bool) {
	if src.Empty() {
		return core.EvidenceItem{}, false
	}
	overlap := m.Overlap(sentence, src)
	if overlap < m.config.ParaphraseMin || overlap >= m.config.ParaphraseMax {
		return core.EvidenceItem{}, false
	}

	snippet := m.bestWindow(sentence, src)
	semantic := m.scorer.Semantic(ctx, sentence, snippet)
	typ := core.EvidenceParaphrase
	if semantic > m.config.PromoteSemantic || overlap > m.config.PromoteOverlap {
		typ = core.EvidenceExact
	}
	return core.EvidenceItem{
		Sentence:           sentence,
		Type:               typ,
		SourceText:         snippet,
		SourceURL:          src.URL,
		PlagiarismScore:    core.Round4(overlap),
		SemanticSimilarity: core.Round4(semantic),
	}, true
}

// bestWindow returns the run of source words, as long as the sentence, that
// shares the most words with it. Without any shared word it returns a prefix
// of the source.
func (m *ParaphraseMatcher) bestWindow(sentence string, src *Source) string {
	words := textutil.Tokenize(sentence)
	size := len(words)
	if size == 0 || len(src.fields) == 0 {
		return textutil.TruncateAtWord(src.Text, m.config.FallbackSnippetChars)
	}
	if size > len(src.fields) {
		size = len(src.fields)
	}
	want := textutil.Set(words)
	hit := func(i int) int {
		if _, ok := want[src.tokens[i]]; ok {
			return 1
		}
		return 0
	}

	count := 0
	for i := 0; i < size; i++ {
		count += hit(i)
	}
	best, bestAt := count, 0
	for i := size; i < len(src.fields); i++ {
		count += hit(i) - hit(i-size)
		if count > best {
			best, bestAt = count, i-size+1
		}
	}
	if best == 0 {
		return textutil.TruncateAtWord(src.Text, m.config.FallbackSnippetChars)
	}
	return strings.Join(src.fields[bestAt:bestAt+size], " ")
}
