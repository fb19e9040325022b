package evidence

import (
	"context"
	"strings"

	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/textutil"
)

// SemanticScorer rates the meaning similarity of two texts in [0, 1].
type SemanticScorer interface {
	Semantic(ctx context.Context, a, b string) float64
}

// ExactMatcher finds verbatim reuse of a sentence inside a source.
type ExactMatcher struct {
	scorer SemanticScorer
	config Config
}

// NewExactMatcher creates an exact matcher.
func NewExactMatcher(scorer SemanticScorer, config Config) (*ExactMatcher, error) {
	if scorer == nil {
		return nil, ErrEngineRequired
	}
	return &ExactMatcher{scorer: scorer, config: config}, nil
}

// Match reports an exact_match when the normalized sentence occurs in the
// normalized source text. The attached source text always contains the
// matched span.
func (m *ExactMatcher) Match(ctx context.Context, sentence string, src *Source) (core.EvidenceItem, bool) {
	needle := textutil.Normalize(sentence)
	if needle == "" || src.Empty() {
		return core.EvidenceItem{}, false
	}
	idx := strings.Index(src.norm, needle)
	if idx < 0 {
		return core.EvidenceItem{}, false
	}
	start, end := textutil.OriginalSpan(src.Text, src.offsets, idx, idx+len(needle))
	if start < 0 {
		return core.EvidenceItem{}, false
	}
	span := src.Text[start:end]

	return core.EvidenceItem{
		Sentence:           sentence,
		Type:               core.EvidenceExact,
		SourceText:         m.snippet(src, start, end),
		SourceURL:          src.URL,
		PlagiarismScore:    m.config.ExactScore,
		SemanticSimilarity: core.Round4(m.scorer.Semantic(ctx, sentence, span)),
	}, true
}

// snippet returns the source sentences covering [start, end), widened by one
// sentence on each side when that fits within MaxSnippetChars.
func (m *ExactMatcher) snippet(src *Source, start, end int) string {
	span := src.Text[start:end]
	sents := src.sentences
	first, last := -1, -1
	for i, s := range sents {
		if s.End > start && s.Start < end {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return span
	}
	lo, hi := sents[first].Start, sents[last].End
	if start < lo {
		lo = start
	}
	if end > hi {
		hi = end
	}
	if m.config.ExpandContext {
		wlo, whi := lo, hi
		if first > 0 {
			wlo = sents[first-1].Start
		}
		if last < len(sents)-1 {
			whi = sents[last+1].End
		}
		if whi-wlo <= m.config.MaxSnippetChars {
			return strings.TrimSpace(src.Text[wlo:whi])
		}
	}
	if hi-lo <= m.config.MaxSnippetChars {
		return strings.TrimSpace(src.Text[lo:hi])
	}
	return span
}
