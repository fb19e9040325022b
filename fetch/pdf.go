package fetch

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts the plain text of every page of a PDF.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Name() string { return "pdf" }

func (e *PDFExtractor) Extract(doc Document) (string, error) {
	if !IsPDF(doc) || len(doc.Body) == 0 {
		return "", ErrNotApplicable
	}
	r, err := pdf.NewReader(bytes.NewReader(doc.Body), int64(len(doc.Body)))
	if err != nil {
		return "", err
	}
	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
