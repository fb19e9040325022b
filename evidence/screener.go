package evidence

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/sourcetrace/ai"
)

// Screener decides which sentences are worth matching textually.
type Screener struct {
	classifier ai.SentenceClassifier
	logger     *slog.Logger
}

// NewScreener wraps a sentence classifier.
func NewScreener(classifier ai.SentenceClassifier, logger *slog.Logger) (*Screener, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Screener{classifier: classifier, logger: logger}, nil
}

// Meaningful reports whether sentence should go through exact and
// paraphrase matching. Classification failures count as not meaningful.
func (s *Screener) Meaningful(ctx context.Context, sentence string) bool {
	if strings.TrimSpace(sentence) == "" {
		return false
	}
	ok, err := s.classifier.IsMeaningful(ctx, sentence)
	if err != nil {
		s.logger.Warn("sentence classification failed", "err", err)
		return false
	}
	return ok
}
