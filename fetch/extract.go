package fetch

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/sourcetrace/textutil"
)

// Document is a downloaded resource handed to extractors.
type Document struct {
	URL         string
	ContentType string
	Body        []byte
}

// Extractor turns a downloaded resource into readable text.
// Implementations return ErrNotApplicable or empty text to pass the
// document to the next extractor in the chain.
type Extractor interface {
	Name() string
	Extract(doc Document) (string, error)
}

// DefaultExtractors returns the standard chain. The PDF extractor is
// included only when binary scraping is allowed.
func DefaultExtractors(allowBinary bool) []Extractor {
	chain := []Extractor{NewMainContentExtractor(), NewArticleExtractor()}
	if allowBinary {
		chain = append(chain, NewPDFExtractor())
	}
	return append(chain, NewStripExtractor())
}

// runChain tries each extractor in order and returns the first non-empty
// result with the extractor's name.
func runChain(chain []Extractor, doc Document) (string, string, error) {
	var errs []error
	for _, ex := range chain {
		text, err := ex.Extract(doc)
		if err != nil {
			if !errors.Is(err, ErrNotApplicable) {
				errs = append(errs, err)
			}
			continue
		}
		if strings.TrimSpace(text) != "" {
			return text, ex.Name(), nil
		}
	}
	return "", "", errors.Join(errs...)
}

// finalizeText collapses whitespace and caps the result at max characters.
func finalizeText(text string, max int) string {
	text = textutil.CollapseWhitespace(text)
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max]))
}
