package evidence

import (
	"context"
	"log/slog"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/similarity"
)

// ideaSourceChars is the prefix of a source embedded for idea provenance.
const ideaSourceChars = 2000

// IdeaMatcher produces the low-confidence fallback evidence for sentences no
// source matched textually.
type IdeaMatcher struct {
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// NewIdeaMatcher creates an idea matcher. A nil embedder disables provenance.
func NewIdeaMatcher(embedder ai.Embedder, config Config, logger *slog.Logger) *IdeaMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdeaMatcher{embedder: embedder, config: config, logger: logger}
}

// Match returns exactly one idea_similarity item per sentence, in order.
// Items name the most related source when its semantic relatedness reaches
// IdeaProvenance; otherwise the source URL is empty. Source text is always empty.
func (m *IdeaMatcher) Match(ctx context.Context, sentences []string, sources []*Source) []core.EvidenceItem {
	items := make([]core.EvidenceItem, len(sentences))
	for i, s := range sentences {
		items[i] = core.EvidenceItem{
			Sentence:           s,
			Type:               core.EvidenceIdea,
			PlagiarismScore:    m.config.IdeaScore,
			SemanticSimilarity: m.config.IdeaSemantic,
		}
	}
	if len(sentences) == 0 || m.embedder == nil || m.config.IdeaProvenance <= 0 {
		return items
	}

	var usable []*Source
	var vectors [][]float32
	for _, src := range sources {
		if src.Empty() || src.URL == "" {
			continue
		}
		vec, err := src.vector(ctx, m.embedder, ideaSourceChars)
		if err != nil {
			m.logger.Warn("idea provenance unavailable for source", "url", src.URL, "err", err)
			continue
		}
		usable = append(usable, src)
		vectors = append(vectors, vec)
	}
	if len(usable) == 0 {
		return items
	}

	sentVecs, err := m.embedder.EmbedTexts(ctx, sentences)
	if err != nil || len(sentVecs) != len(sentences) {
		m.logger.Warn("idea provenance unavailable", "err", err)
		return items
	}
	for i, sv := range sentVecs {
		best, bestAt := 0.0, -1
		for j, vec := range vectors {
			cos, ok := similarity.Cosine(sv, vec)
			if !ok {
				continue
			}
			if rel := similarity.SemanticFromCosine(cos); rel > best {
				best, bestAt = rel, j
			}
		}
		if bestAt >= 0 && best >= m.config.IdeaProvenance {
			items[i].SourceURL = usable[bestAt].URL
		}
	}
	return items
}
