package fetch

import (
	"html"
	"regexp"
)

var (
	scriptStylePattern = regexp.MustCompile(`(?is)<(script|style)\b.*?</(script|style)>`)
	tagPattern         = regexp.MustCompile(`(?s)<[^>]*>`)
)

// StripExtractor removes markup with regular expressions. Plain text passes
// through unchanged.
type StripExtractor struct{}

// NewStripExtractor creates the last-resort extractor.
func NewStripExtractor() *StripExtractor {
	return &StripExtractor{}
}

func (e *StripExtractor) Name() string { return "strip" }

func (e *StripExtractor) Extract(doc Document) (string, error) {
	if IsPDF(doc) || IsBinaryContentType(doc.ContentType) {
		return "", ErrNotApplicable
	}
	body := string(doc.Body)
	if mediaTypeOf(doc.ContentType) == "text/plain" {
		return body, nil
	}
	body = scriptStylePattern.ReplaceAllString(body, " ")
	body = tagPattern.ReplaceAllString(body, " ")
	return html.UnescapeString(body), nil
}
