package textutil

import (
	"strings"
	"unicode"
)

// Stop words ignored when building content-word sets
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "be": true, "is": true, "are": true,
	"was": true, "to": true, "of": true, "and": true, "in": true, "that": true,
	"have": true, "it": true, "for": true, "not": true, "on": true, "with": true,
	"as": true, "you": true, "do": true, "at": true, "this": true, "but": true,
	"by": true, "from": true,
}

// IsStopWord reports whether the lowercase word is a stop word.
func IsStopWord(word string) bool {
	return stopWords[word]
}

// Words splits text on whitespace.
func Words(text string) []string {
	return strings.Fields(text)
}

// WordTokens returns the lowercase runs of letters and digits in text.
func WordTokens(text string) []string {
	var tokens []string
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, strings.ToLower(text[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		tokens = append(tokens, strings.ToLower(text[start:]))
	}
	return tokens
}

// WordCount counts word tokens in text.
func WordCount(text string) int {
	n := 0
	in := false
	for _, r := range text {
		if isWordRune(r) {
			if !in {
				n++
				in = true
			}
			continue
		}
		in = false
	}
	return n
}

// Tokenize splits text into words, lowercases them and trims surrounding punctuation.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.TrimFunc(word, isTrimmable))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// ContentWords tokenizes text and removes stop words.
func ContentWords(text string) []string {
	words := Tokenize(text)
	filtered := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// WordSet returns the set of tokenized words in text.
func WordSet(text string) map[string]struct{} {
	return Set(Tokenize(text))
}

// Set builds a set from a slice of strings.
func Set(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// NGrams returns the contiguous n-grams of tokens joined by a single space.
// Returns nil when there are fewer than n tokens.
func NGrams(tokens []string, n int) []string {
	if n <= 0 || len(tokens) < n {
		return nil
	}
	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}

// NGramSet returns the set of n-grams of tokens.
func NGramSet(tokens []string, n int) map[string]struct{} {
	return Set(NGrams(tokens, n))
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard[K comparable](a, b map[K]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Overlap returns the fraction of a's members that also appear in b.
// Returns 0 when a is empty.
func Overlap[K comparable](a, b map[K]struct{}) float64 {
	if len(a) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a))
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isTrimmable(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
