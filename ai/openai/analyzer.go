package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/textutil"
	"github.com/tmc/langchaingo/llms"
)

// Analyzer implements ai.Tagger and ai.SentenceClassifier with an
// OpenAI-compatible chat model in JSON mode.
type Analyzer struct {
	client   llms.Model
	minWords int
	logger   *slog.Logger
}

var (
	_ ai.Tagger             = (*Analyzer)(nil)
	_ ai.SentenceClassifier = (*Analyzer)(nil)
)

type tagResponse struct {
	Tags []string `json:"tags"`
}

type meaningfulnessResponse struct {
	HasVerb    bool `json:"has_verb"`
	HasSubject bool `json:"has_subject"`
}

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(config *ai.Config) (*Analyzer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	client, err := NewChatModel(config.AnalyzerHost, config.AnalyzerModel, config.APIKey)
	if err != nil {
		return nil, err
	}
	return NewAnalyzerWithModel(client, config.MinSentenceWords), nil
}

// NewAnalyzerWithModel creates an analyzer around an existing model.
func NewAnalyzerWithModel(client llms.Model, minWords int) *Analyzer {
	return &Analyzer{
		client:   client,
		minWords: minWords,
		logger:   slog.Default().With("component", "openai-analyzer"),
	}
}

// Tag returns one Universal POS tag per whitespace token of text.
// A model answer with the wrong number of tags is padded or cut to fit, and
// unknown tags map to ai.TagOther.
func (a *Analyzer) Tag(ctx context.Context, text string) ([]string, error) {
	tokens := make([]string, 0)
	for _, w := range strings.Fields(text) {
		if t := strings.TrimFunc(w, unicode.IsPunct); t != "" {
			tokens = append(tokens, t)
		}
	}
	if len(tokens) == 0 {
		return []string{}, nil
	}

	input, err := json.Marshal(tokens)
	if err != nil {
		return nil, err
	}
	var result tagResponse
	if err := GenerateJSON(ctx, a.client, buildTaggingPrompt(), string(input), &result, a.logger); err != nil {
		return nil, err
	}

	if len(result.Tags) != len(tokens) {
		a.logger.Debug("tag count mismatch", "tokens", len(tokens), "tags", len(result.Tags))
	}
	tags := make([]string, len(tokens))
	for i := range tags {
		if i < len(result.Tags) {
			tags[i] = ai.NormalizeTag(result.Tags[i])
		} else {
			tags[i] = ai.TagOther
		}
	}
	return tags, nil
}

// IsMeaningful reports whether sentence has enough words, a verb and a subject.
// Short sentences are rejected without a model call.
func (a *Analyzer) IsMeaningful(ctx context.Context, sentence string) (bool, error) {
	if textutil.WordCount(sentence) < a.minWords {
		return false, nil
	}
	var result meaningfulnessResponse
	if err := GenerateJSON(ctx, a.client, buildMeaningfulnessPrompt(), sentence, &result, a.logger); err != nil {
		return false, err
	}
	return result.HasVerb && result.HasSubject, nil
}
