package retrieval

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/poiesic/sourcetrace/core"
)

// DefaultGoogleEndpoint is the Custom Search JSON API endpoint.
const DefaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleProvider queries the Google Custom Search JSON API.
type GoogleProvider struct {
	base
	apiKey string
	cseID  string
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a Custom Search provider.
func NewGoogleProvider(apiKey, cseID string, opts ...ProviderOption) *GoogleProvider {
	return &GoogleProvider{
		base:   newBase("google", DefaultGoogleEndpoint, opts),
		apiKey: apiKey,
		cseID:  cseID,
	}
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

func (p *GoogleProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	if p.apiKey == "" || p.cseID == "" {
		return nil, ErrProviderNotConfigured
	}
	num := topK
	if num <= 0 || num > 10 {
		num = 10
	}
	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.cseID)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(num))

	var resp googleResponse
	err := p.fetchJSON(ctx, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	}, &resp)
	if err != nil {
		return nil, err
	}

	var out []core.Candidate
	for _, it := range resp.Items {
		if it.Link == "" {
			continue
		}
		out = append(out, core.Candidate{URL: it.Link, Title: it.Title, Snippet: it.Snippet, Origin: p.name})
		if len(out) == num {
			break
		}
	}
	return out, nil
}
