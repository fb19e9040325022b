package retrieval

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/sourcetrace/core"
)

// DefaultBingEndpoint is the Bing Web Search v7 endpoint.
const DefaultBingEndpoint = "https://api.bing.microsoft.com/v7.0/search"

// BingProvider queries the Bing Web Search API.
type BingProvider struct {
	base
	apiKey string
}

var _ Provider = (*BingProvider)(nil)

// NewBingProvider creates a Bing provider.
func NewBingProvider(apiKey string, opts ...ProviderOption) *BingProvider {
	return &BingProvider{
		base:   newBase("bing", DefaultBingEndpoint, opts),
		apiKey: apiKey,
	}
}

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

func (p *BingProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if p.apiKey == "" {
		return nil, ErrProviderNotConfigured
	}
	params := url.Values{}
	params.Set("q", query)
	if topK > 0 {
		params.Set("count", strconv.Itoa(topK))
	}

	var resp bingResponse
	err := p.fetchJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)
		return req, nil
	}, &resp)
	if err != nil {
		return nil, err
	}

	var out []core.Candidate
	for _, it := range resp.WebPages.Value {
		if it.URL == "" {
			continue
		}
		out = append(out, core.Candidate{URL: it.URL, Title: it.Name, Snippet: it.Snippet, Origin: p.name})
		if topK > 0 && len(out) == topK {
			break
		}
	}
	return out, nil
}
