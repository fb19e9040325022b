package openai

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/poiesic/sourcetrace/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// scriptedModel returns canned responses in order, repeating the last one.
type scriptedModel struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int
	inputs    []string
}

func (m *scriptedModel) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if last := messages[len(messages)-1]; len(last.Parts) > 0 {
		if text, ok := last.Parts[0].(llms.TextContent); ok {
			m.inputs = append(m.inputs, text.Text)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	idx := min(m.calls-1, len(m.responses)-1)
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: m.responses[idx]}}}, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestAnalyzerTag(t *testing.T) {
	ctx := context.Background()

	t.Run("tags each token", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"```json\n{\"tags\":[\"det\",\"NOUN\",\"VERB\"]}\n```"}}
		analyzer := NewAnalyzerWithModel(model, 3)

		tags, err := analyzer.Tag(ctx, "The fox jumps.")
		require.NoError(t, err)
		assert.Equal(t, []string{ai.TagDeterminer, ai.TagNoun, ai.TagVerb}, tags)
		assert.Equal(t, []string{`["The","fox","jumps"]`}, model.inputs)
	})

	t.Run("pads short answers and maps unknown tags", func(t *testing.T) {
		model := &scriptedModel{responses: []string{`{"tags":["NN"]}`}}
		tags, err := NewAnalyzerWithModel(model, 3).Tag(ctx, "one two")
		require.NoError(t, err)
		assert.Equal(t, []string{ai.TagOther, ai.TagOther}, tags)
	})

	t.Run("retries malformed json", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"not json", `{"tags":["NOUN"]}`}}
		tags, err := NewAnalyzerWithModel(model, 3).Tag(ctx, "word")
		require.NoError(t, err)
		assert.Equal(t, []string{ai.TagNoun}, tags)
		assert.Equal(t, 2, model.calls)
	})

	t.Run("gives up after three malformed answers", func(t *testing.T) {
		model := &scriptedModel{responses: []string{"nope"}}
		_, err := NewAnalyzerWithModel(model, 3).Tag(ctx, "word")
		assert.Error(t, err)
		assert.Equal(t, 3, model.calls)
	})

	t.Run("empty text skips the model", func(t *testing.T) {
		model := &scriptedModel{responses: []string{`{"tags":[]}`}}
		tags, err := NewAnalyzerWithModel(model, 3).Tag(ctx, " ... ")
		require.NoError(t, err)
		assert.Empty(t, tags)
		assert.Zero(t, model.calls)
	})
}

func TestAnalyzerIsMeaningful(t *testing.T) {
	ctx := context.Background()

	t.Run("requires verb and subject", func(t *testing.T) {
		model := &scriptedModel{responses: []string{`{"has_verb":true,"has_subject":true}`}}
		ok, err := NewAnalyzerWithModel(model, 3).IsMeaningful(ctx, "Water boils at 100 degrees.")
		require.NoError(t, err)
		assert.True(t, ok)

		model = &scriptedModel{responses: []string{`{"has_verb":true,"has_subject":false}`}}
		ok, err = NewAnalyzerWithModel(model, 3).IsMeaningful(ctx, "Boils at 100 degrees.")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("short sentences skip the model", func(t *testing.T) {
		model := &scriptedModel{responses: []string{`{"has_verb":true,"has_subject":true}`}}
		ok, err := NewAnalyzerWithModel(model, 3).IsMeaningful(ctx, "Results.")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, model.calls)
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		boom := errors.New("connection refused")
		model := &scriptedModel{err: boom}
		_, err := NewAnalyzerWithModel(model, 3).IsMeaningful(ctx, "Water boils at 100 degrees.")
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, model.calls)
	})
}

func TestGenerateJSONNoChoices(t *testing.T) {
	model := &emptyModel{}
	var out map[string]any
	err := GenerateJSON(context.Background(), model, "sys", "input", &out, nil)
	assert.ErrorIs(t, err, ErrNoChoices)
}

type emptyModel struct{}

func (emptyModel) GenerateContent(context.Context, []llms.MessageContent, ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (m emptyModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"valid json untouched", `{"tags":["NOUN"]}`, `{"tags":["NOUN"]}`},
		{"missing opening quote", `{"has_verb":true, has_subject":false}`, `{"has_verb":true, "has_subject":false}`},
		{"bare keys", `{results: [{url: "https://a.org"}]}`, `{"results": [{"url": "https://a.org"}]}`},
		{"trailing commas", `{"tags":["NOUN","VERB",],}`, `{"tags":["NOUN","VERB"]}`},
		{"fenced with prose", "```json\nHere you go: {\"meaningful\":true}\n```", `{"meaningful":true}`},
		{"strings untouched", `{"snippet":"a, b: c,}"}`, `{"snippet":"a, b: c,}"}`},
		{"literals in arrays", `{"flags":[true, false, null]}`, `{"flags":[true, false, null]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, repairJSON(tt.in))
		})
	}
}
