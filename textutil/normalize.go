package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	bracketCitation = regexp.MustCompile(`\[[^\]]*\]`)
	etAlCitation    = regexp.MustCompile(`\([^)]*et al\.?[^)]*\)`)
	yearCitation    = regexp.MustCompile(`\([^)]*\b(1[5-9]|20)\d{2}[a-z]?\b[^)]*\)`)
)

// Normalize lowercases text, collapses whitespace runs into one space and trims.
func Normalize(text string) string {
	return strings.ToLower(CollapseWhitespace(text))
}

// CollapseWhitespace replaces every whitespace run with a single space and trims.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeWithMap normalizes text like Normalize and also returns, for every
// byte of the normalized string, the byte offset of the originating rune in text.
func NormalizeWithMap(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text))
	pendingSpace := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if b.Len() > 0 && pendingSpace < 0 {
				pendingSpace = i
			}
			continue
		}
		if pendingSpace >= 0 {
			b.WriteByte(' ')
			offsets = append(offsets, pendingSpace)
			pendingSpace = -1
		}
		lower := unicode.ToLower(r)
		n := utf8.RuneLen(lower)
		if n < 0 {
			lower, n = utf8.RuneError, utf8.RuneLen(utf8.RuneError)
		}
		b.WriteRune(lower)
		for k := 0; k < n; k++ {
			offsets = append(offsets, i)
		}
	}
	return b.String(), offsets
}

// OriginalSpan maps a [start, end) span of a string produced by
// NormalizeWithMap back onto the original text.
func OriginalSpan(text string, offsets []int, start, end int) (int, int) {
	if start < 0 || end > len(offsets) || start >= end {
		return -1, -1
	}
	origStart := offsets[start]
	last := offsets[end-1]
	_, size := utf8.DecodeRuneInString(text[last:])
	return origStart, last + size
}

// CleanCitations removes bracketed references, "et al." parentheticals and
// parenthesized years, then collapses whitespace.
func CleanCitations(text string) string {
	text = bracketCitation.ReplaceAllString(text, "")
	text = etAlCitation.ReplaceAllString(text, "")
	text = yearCitation.ReplaceAllString(text, "")
	return CollapseWhitespace(text)
}

// TruncateAtWord shortens text to at most max bytes, cutting at the last
// word boundary when one exists.
func TruncateAtWord(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	cut := TruncateBytes(text, max)
	if idx := strings.LastIndexFunc(cut, unicode.IsSpace); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut)
}

// TruncateBytes shortens text to at most max bytes without splitting a rune.
func TruncateBytes(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
