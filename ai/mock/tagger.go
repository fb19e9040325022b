package mock

import (
	"context"
	"hash/fnv"
	"sync/atomic"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/poiesic/sourcetrace/textutil"
)

// MockTagger is a test double for ai.Tagger.
type MockTagger struct {
	// TagFunc is called by Tag if set.
	// If nil, every token gets a tag derived from its hash.
	TagFunc func(ctx context.Context, text string) ([]string, error)

	callCount atomic.Int64
}

// NewMockTagger creates a mock tagger with default deterministic behavior.
func NewMockTagger() *MockTagger {
	return &MockTagger{}
}

// Tag returns one deterministic tag per word token.
func (m *MockTagger) Tag(ctx context.Context, text string) ([]string, error) {
	m.callCount.Add(1)

	if m.TagFunc != nil {
		return m.TagFunc(ctx, text)
	}

	tokens := textutil.WordTokens(text)
	tags := make([]string, len(tokens))
	for i, tok := range tokens {
		h := fnv.New32a()
		h.Write([]byte(tok))
		tags[i] = ai.Tags[h.Sum32()%uint32(len(ai.Tags))]
	}
	return tags, nil
}

// CallCount returns the number of times Tag was called.
func (m *MockTagger) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockTagger) Reset() {
	m.callCount.Store(0)
	m.TagFunc = nil
}
