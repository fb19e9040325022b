package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/poiesic/sourcetrace/ai/openai"
	"github.com/poiesic/sourcetrace/core"
)

const llmSearchPrompt = `You are a research assistant that finds published sources on the web.

Output ONLY valid JSON of the form:
{"results":[{"title":"...","url":"https://...","snippet":"...","score":0.0}]}

Rules:
- Return at most %d results.
- Every url must be an absolute http or https URL of a real, publicly reachable page.
- snippet is one or two sentences from or about the page.
- score is your confidence between 0 and 1 that the page discusses the request.
- If you know of no sources, return {"results":[]}.`

// LLMProvider asks a language model with web access to list sources.
type LLMProvider struct {
	name   string
	model  llms.Model
	logger *slog.Logger
}

var _ Provider = (*LLMProvider)(nil)

// NewLLMProvider wraps model as a search provider.
func NewLLMProvider(model llms.Model, logger *slog.Logger) (*LLMProvider, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LLMProvider{
		name:   "llm",
		model:  model,
		logger: logger.With("component", "retrieval", "provider", "llm"),
	}, nil
}

func (p *LLMProvider) Name() string { return p.name }

type llmSearchResponse struct {
	Results []struct {
		Title   string          `json:"title"`
		URL     string          `json:"url"`
		Snippet string          `json:"snippet"`
		Score   json.RawMessage `json:"score"`
	} `json:"results"`
}

func (p *LLMProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if topK <= 0 {
		topK = 10
	}
	var resp llmSearchResponse
	if err := openai.GenerateJSON(ctx, p.model, fmt.Sprintf(llmSearchPrompt, topK), query, &resp, p.logger); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &PermanentError{Provider: p.name, Err: err}
	}

	var out []core.Candidate
	for _, r := range resp.Results {
		u := strings.TrimSpace(r.URL)
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, core.Candidate{
			URL:        u,
			Title:      title,
			Snippet:    r.Snippet,
			Origin:     p.name,
			Confidence: parseScore(r.Score),
		})
		if len(out) == topK {
			break
		}
	}
	return out, nil
}
