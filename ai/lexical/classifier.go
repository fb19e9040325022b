package lexical

import (
	"context"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/textutil"
)

// Classifier judges sentence meaningfulness from lexical tags.
type Classifier struct {
	tagger   *Tagger
	minWords int
}

var _ ai.SentenceClassifier = (*Classifier)(nil)

// NewClassifier creates a classifier requiring at least minWords words.
func NewClassifier(minWords int) *Classifier {
	if minWords < 1 {
		minWords = 1
	}
	return &Classifier{tagger: NewTagger(), minWords: minWords}
}

// IsMeaningful reports whether sentence has at least minWords words, a verb,
// and a nominal subject candidate before that verb.
func (c *Classifier) IsMeaningful(ctx context.Context, sentence string) (bool, error) {
	if textutil.WordCount(sentence) < c.minWords {
		return false, nil
	}
	tags, err := c.tagger.Tag(ctx, sentence)
	if err != nil {
		return false, err
	}
	subject := false
	for _, tag := range tags {
		if ai.IsVerbal(tag) {
			return subject, nil
		}
		if ai.IsNominal(tag) {
			subject = true
		}
	}
	return false, nil
}
