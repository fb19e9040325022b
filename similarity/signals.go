package similarity

import (
	"strings"

	"github.com/minio/highwayhash"
	"github.com/poiesic/sourcetrace/textutil"
)

const (
	lexicalN     = 3
	grammaticalN = 3
	shingleSize  = 5
)

// shingleKey is the fixed 32-byte HighwayHash key for shingle digests.
var shingleKey = []byte("sourcetrace-shingle-fingerprints")

// Lexical is the Jaccard similarity of the word 3-gram sets of a and b.
func Lexical(a, b string) float64 {
	return textutil.Jaccard(
		textutil.NGramSet(textutil.WordTokens(a), lexicalN),
		textutil.NGramSet(textutil.WordTokens(b), lexicalN),
	)
}

// Grammatical is the Jaccard similarity of the tag 3-gram sets.
func Grammatical(tagsA, tagsB []string) float64 {
	return textutil.Jaccard(
		textutil.NGramSet(tagsA, grammaticalN),
		textutil.NGramSet(tagsB, grammaticalN),
	)
}

// Fingerprint is the Jaccard similarity of the hashed 5-word shingle sets.
func Fingerprint(a, b string) float64 {
	return textutil.Jaccard(Shingles(a), Shingles(b))
}

// Shingles returns the HighwayHash-64 digests of every 5-word shingle of text.
func Shingles(text string) map[uint64]struct{} {
	tokens := textutil.WordTokens(text)
	if len(tokens) < shingleSize {
		return map[uint64]struct{}{}
	}
	set := make(map[uint64]struct{}, len(tokens)-shingleSize+1)
	for i := 0; i+shingleSize <= len(tokens); i++ {
		shingle := strings.Join(tokens[i:i+shingleSize], " ")
		set[highwayhash.Sum64([]byte(shingle), shingleKey)] = struct{}{}
	}
	return set
}

// Exact is the share of a's distinct words that also occur in b.
func Exact(a, b string) float64 {
	return textutil.Overlap(
		textutil.Set(textutil.WordTokens(a)),
		textutil.Set(textutil.WordTokens(b)),
	)
}
