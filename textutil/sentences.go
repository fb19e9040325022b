package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence is a sentence together with its byte span in the source text.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// abbreviations whose trailing period does not end a sentence
var abbreviations = map[string]bool{
	"al": true, "e.g": true, "i.e": true, "mr": true, "mrs": true, "ms": true,
	"dr": true, "prof": true, "vs": true, "fig": true, "no": true, "st": true,
	"jr": true, "sr": true, "cf": true, "approx": true, "vol": true, "pp": true,
}

// SplitSentences splits text after '.', '!' or '?' followed by whitespace,
// and at blank lines. Offsets are byte positions into text; sentence text is
// trimmed and empty pieces are dropped.
func SplitSentences(text string) []Sentence {
	var out []Sentence
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case r == '.' || r == '!' || r == '?':
			j := i + size
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !strings.ContainsRune(".!?\"')]”’", r2) {
					break
				}
				j += s2
			}
			if j == len(text) || startsWithSpace(text[j:]) {
				if r == '.' && endsWithAbbreviation(text[start:i]) {
					i = j
					continue
				}
				out = appendSentence(out, text, start, j)
				start = j
			}
			i = j
		case r == '\n' && isParagraphBreak(text[i+size:]):
			out = appendSentence(out, text, start, i)
			start = i + size
			i += size
		default:
			i += size
		}
	}
	return appendSentence(out, text, start, len(text))
}

// SentenceTexts returns only the text of each sentence in text.
func SentenceTexts(text string) []string {
	sentences := SplitSentences(text)
	out := make([]string, len(sentences))
	for i, s := range sentences {
		out[i] = s.Text
	}
	return out
}

// EndsSentence reports whether a whitespace token closes a sentence.
func EndsSentence(word string) bool {
	word = strings.TrimRight(word, "\"')]”’")
	if word == "" {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(word)
	return last == '.' || last == '!' || last == '?'
}

func appendSentence(out []Sentence, text string, start, end int) []Sentence {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	if start >= end {
		return out
	}
	return append(out, Sentence{Text: text[start:end], Start: start, End: end})
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func isParagraphBreak(rest string) bool {
	for _, r := range rest {
		if r == '\n' {
			return true
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return false
}

func endsWithAbbreviation(prefix string) bool {
	idx := strings.LastIndexFunc(prefix, unicode.IsSpace)
	word := strings.ToLower(strings.TrimLeft(prefix[idx+1:], "(\"'"))
	if abbreviations[word] {
		return true
	}
	// Single-letter initials such as "J." in "J. Smith".
	if utf8.RuneCountInString(word) == 1 {
		r, _ := utf8.DecodeRuneInString(word)
		return unicode.IsLetter(r)
	}
	return false
}
