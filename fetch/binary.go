package fetch

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

var binaryExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
	".xls":  true,
	".xlsx": true,
	".zip":  true,
}

// IsBinaryURL reports whether the URL path names a binary document.
func IsBinaryURL(raw string) bool {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return binaryExtensions[strings.ToLower(path.Ext(p))]
}

// IsBinaryContentType reports whether a Content-Type header names a binary
// document format.
func IsBinaryContentType(contentType string) bool {
	mediaType := mediaTypeOf(contentType)
	switch {
	case mediaType == "application/pdf",
		mediaType == "application/msword",
		mediaType == "application/zip",
		mediaType == "application/octet-stream",
		strings.HasPrefix(mediaType, "application/vnd.openxmlformats-officedocument."),
		strings.HasPrefix(mediaType, "application/vnd.ms-"):
		return true
	}
	return false
}

// IsPDF reports whether the content is a PDF by type, URL or magic bytes.
func IsPDF(doc Document) bool {
	if mediaTypeOf(doc.ContentType) == "application/pdf" {
		return true
	}
	if strings.HasPrefix(string(doc.Body[:min(len(doc.Body), 5)]), "%PDF-") {
		return true
	}
	if u, err := url.Parse(doc.URL); err == nil {
		return strings.EqualFold(path.Ext(u.Path), ".pdf")
	}
	return false
}

func mediaTypeOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mediaType
}

// isHTMLish reports whether content may be parsed as HTML.
func isHTMLish(contentType string) bool {
	switch mt := mediaTypeOf(contentType); mt {
	case "", "text/html", "application/xhtml+xml", "application/xml", "text/xml":
		return true
	}
	return false
}
