package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/sourcetrace/textutil"
)

// MockClassifier is a test double for ai.SentenceClassifier.
type MockClassifier struct {
	// IsMeaningfulFunc is called by IsMeaningful if set.
	// If nil, any sentence with at least three words is meaningful.
	IsMeaningfulFunc func(ctx context.Context, sentence string) (bool, error)

	callCount atomic.Int64
}

// NewMockClassifier creates a mock classifier with default behavior.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// IsMeaningful reports whether sentence has at least three words.
func (m *MockClassifier) IsMeaningful(ctx context.Context, sentence string) (bool, error) {
	m.callCount.Add(1)

	if m.IsMeaningfulFunc != nil {
		return m.IsMeaningfulFunc(ctx, sentence)
	}
	return textutil.WordCount(sentence) >= 3, nil
}

// CallCount returns the number of times IsMeaningful was called.
func (m *MockClassifier) CallCount() int {
	return int(m.callCount.Load())
}

// Reset clears the call count and any injected behavior.
func (m *MockClassifier) Reset() {
	m.callCount.Store(0)
	m.IsMeaningfulFunc = nil
}
