package fetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// elements whose content is never part of the readable text
var skipElements = map[string]bool{
	"script": true, "style": true, "noscript": true, "iframe": true, "svg": true,
	"template": true, "form": true, "button": true,
}

// page chrome dropped by the main-content extractor
var chromeElements = map[string]bool{
	"nav": true, "header": true, "footer": true, "aside": true,
}

// elements that end a line of text
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true, "section": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "article": true, "main": true,
}

func parseHTML(doc Document) (*html.Node, error) {
	if !isHTMLish(doc.ContentType) || IsPDF(doc) {
		return nil, ErrNotApplicable
	}
	return html.Parse(bytes.NewReader(doc.Body))
}

// MainContentExtractor returns the text of the page's main content element
// (<main>, <article> or role="main") without navigation, headers, footers
// and asides.
type MainContentExtractor struct{}

// NewMainContentExtractor creates a main-content extractor.
func NewMainContentExtractor() *MainContentExtractor {
	return &MainContentExtractor{}
}

func (e *MainContentExtractor) Name() string { return "main-content" }

func (e *MainContentExtractor) Extract(doc Document) (string, error) {
	root, err := parseHTML(doc)
	if err != nil {
		return "", err
	}
	content := findNode(root, func(n *html.Node) bool {
		return n.Data == "main" || getAttr(n, "role") == "main"
	})
	if content == nil {
		content = findNode(root, func(n *html.Node) bool { return n.Data == "article" })
	}
	if content == nil {
		return "", nil
	}
	var sb strings.Builder
	collectText(content, &sb, true, 0)
	return sb.String(), nil
}

// ArticleExtractor returns the paragraphs of the container holding the most
// paragraph text.
type ArticleExtractor struct{}

// NewArticleExtractor creates a paragraph-density extractor.
func NewArticleExtractor() *ArticleExtractor {
	return &ArticleExtractor{}
}

func (e *ArticleExtractor) Name() string { return "article" }

func (e *ArticleExtractor) Extract(doc Document) (string, error) {
	root, err := parseHTML(doc)
	if err != nil {
		return "", err
	}

	density := make(map[*html.Node]int)
	var order []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipElements[n.Data] || chromeElements[n.Data] {
				return
			}
			if n.Data == "p" && n.Parent != nil {
				if _, seen := density[n.Parent]; !seen {
					order = append(order, n.Parent)
				}
				density[n.Parent] += len(textContent(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	var best *html.Node
	for _, n := range order {
		if best == nil || density[n] > density[best] {
			best = n
		}
	}
	if best == nil {
		return "", nil
	}

	var paragraphs []string
	for c := best.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "p" {
			if t := textContent(c); t != "" {
				paragraphs = append(paragraphs, t)
			}
		}
	}
	return strings.Join(paragraphs, "\n"), nil
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder, dropChrome bool, depth int) {
	if depth > 200 {
		return
	}
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			sb.WriteString(t)
			sb.WriteString(" ")
		}
		return
	case html.ElementNode:
		if skipElements[n.Data] || (dropChrome && chromeElements[n.Data]) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb, dropChrome, depth+1)
	}
	if n.Type == html.ElementNode && blockElements[n.Data] {
		sb.WriteString("\n")
	}
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb, false, 0)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
