package retrieval

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/poiesic/sourcetrace/core"
)

// DefaultDuckDuckGoEndpoint is the keyless DuckDuckGo HTML interface.
const DefaultDuckDuckGoEndpoint = "https://html.duckduckgo.com/html/"

const duckDuckGoRedirect = "//duckduckgo.com/l/?uddg="

// DuckDuckGoProvider scrapes the DuckDuckGo HTML results page. It needs no key.
type DuckDuckGoProvider struct {
	base
	userAgent string
}

var _ Provider = (*DuckDuckGoProvider)(nil)

// NewDuckDuckGoProvider creates a DuckDuckGo provider.
func NewDuckDuckGoProvider(userAgent string, opts ...ProviderOption) *DuckDuckGoProvider {
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; sourcetrace/1.0)"
	}
	return &DuckDuckGoProvider{
		base:      newBase("duckduckgo", DefaultDuckDuckGoEndpoint, opts),
		userAgent: userAgent,
	}
}

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, topK int) ([]core.Candidate, error) {
	target := p.endpoint + "?q=" + url.QueryEscape(query)
	body, err := p.fetch(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", p.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	out, err := parseDuckDuckGoResults(body, topK)
	if err != nil {
		return nil, &PermanentError{Provider: p.name, Err: err}
	}
	for i := range out {
		out[i].Origin = p.name
	}
	return out, nil
}

// parseDuckDuckGoResults extracts results from the HTML results page.
func parseDuckDuckGoResults(body []byte, maxResults int) ([]core.Candidate, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []core.Candidate
	var find func(*html.Node)
	find = func(n *html.Node) {
		if maxResults > 0 && len(results) >= maxResults {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attr(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				if c := extractDuckDuckGoResult(n); c.URL != "" && c.Title != "" {
					results = append(results, c)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	return results, nil
}

func extractDuckDuckGoResult(n *html.Node) core.Candidate {
	var c core.Candidate
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			class := attr(n, "class")
			switch {
			case strings.Contains(class, "result__a"):
				c.URL = attr(n, "href")
				c.Title = nodeText(n)
			case strings.Contains(class, "result__snippet"):
				c.Snippet = nodeText(n)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)

	if strings.HasPrefix(c.URL, duckDuckGoRedirect) {
		if decoded, err := url.QueryUnescape(strings.TrimPrefix(c.URL, duckDuckGoRedirect)); err == nil {
			if idx := strings.Index(decoded, "&"); idx > 0 {
				decoded = decoded[:idx]
			}
			c.URL = decoded
		}
	}
	return c
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
