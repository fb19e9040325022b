package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/poiesic/sourcetrace/core"
)

// DefaultSearchAPIEndpoint is the Perplexity search endpoint.
const DefaultSearchAPIEndpoint = "https://api.perplexity.ai/search"

// SearchAPIProvider queries a Perplexity-style JSON search endpoint that
// returns scored results.
type SearchAPIProvider struct {
	base
	apiKey string
	model  string
}

var _ Provider = (*SearchAPIProvider)(nil)

// NewSearchAPIProvider creates the primary structured search provider.
func NewSearchAPIProvider(apiKey, model string, opts ...ProviderOption) *SearchAPIProvider {
	if model == "" {
		model = "sonar"
	}
	return &SearchAPIProvider{
		base:   newBase("searchapi", DefaultSearchAPIEndpoint, opts),
		apiKey: apiKey,
		model:  model,
	}
}

type searchAPIRequest struct {
	Model string `json:"model"`
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

type searchAPIResponse struct {
	Results []struct {
		Title   string          `json:"title"`
		URL     string          `json:"url"`
		Snippet string          `json:"snippet"`
		Score   json.RawMessage `json:"score"`
	} `json:"results"`
}

func (p *SearchAPIProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if p.apiKey == "" {
		return nil, ErrProviderNotConfigured
	}
	payload, err := json.Marshal(searchAPIRequest{Model: p.model, Query: query, TopK: topK})
	if err != nil {
		return nil, &PermanentError{Provider: p.name, Err: err}
	}

	var resp searchAPIResponse
	err = p.fetchJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, &resp)
	if err != nil {
		return nil, err
	}

	var out []core.Candidate
	for _, r := range resp.Results {
		if r.URL == "" {
			continue
		}
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, core.Candidate{
			URL:        r.URL,
			Title:      title,
			Snippet:    r.Snippet,
			Origin:     p.name,
			Confidence: parseScore(r.Score),
		})
		if topK > 0 && len(out) == topK {
			break
		}
	}
	return out, nil
}

// parseScore accepts a number or a numeric string. Anything else means the
// provider reported no usable score.
func parseScore(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return core.Float64(f)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return core.Float64(f)
		}
	}
	return nil
}
