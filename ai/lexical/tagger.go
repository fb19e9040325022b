package lexical

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/sourcetrace/ai"
)

var closedClass = map[string]string{
	// determiners
	"the": ai.TagDeterminer, "a": ai.TagDeterminer, "an": ai.TagDeterminer,
	"this": ai.TagDeterminer, "that": ai.TagDeterminer, "these": ai.TagDeterminer,
	"those": ai.TagDeterminer, "each": ai.TagDeterminer, "every": ai.TagDeterminer,
	"some": ai.TagDeterminer, "any": ai.TagDeterminer, "no": ai.TagDeterminer,
	"all": ai.TagDeterminer, "both": ai.TagDeterminer, "its": ai.TagDeterminer,
	"their": ai.TagDeterminer, "our": ai.TagDeterminer, "his": ai.TagDeterminer,
	"her": ai.TagDeterminer, "my": ai.TagDeterminer, "your": ai.TagDeterminer,
	// pronouns
	"i": ai.TagPronoun, "you": ai.TagPronoun, "he": ai.TagPronoun, "she": ai.TagPronoun,
	"it": ai.TagPronoun, "we": ai.TagPronoun, "they": ai.TagPronoun, "me": ai.TagPronoun,
	"him": ai.TagPronoun, "us": ai.TagPronoun, "them": ai.TagPronoun, "who": ai.TagPronoun,
	"which": ai.TagPronoun, "what": ai.TagPronoun, "one": ai.TagPronoun,
	// auxiliaries and modals
	"is": ai.TagAuxiliary, "are": ai.TagAuxiliary, "was": ai.TagAuxiliary,
	"were": ai.TagAuxiliary, "be": ai.TagAuxiliary, "been": ai.TagAuxiliary,
	"being": ai.TagAuxiliary, "am": ai.TagAuxiliary, "has": ai.TagAuxiliary,
	"have": ai.TagAuxiliary, "had": ai.TagAuxiliary, "do": ai.TagAuxiliary,
	"does": ai.TagAuxiliary, "did": ai.TagAuxiliary, "can": ai.TagAuxiliary,
	"could": ai.TagAuxiliary, "will": ai.TagAuxiliary, "would": ai.TagAuxiliary,
	"shall": ai.TagAuxiliary, "should": ai.TagAuxiliary, "may": ai.TagAuxiliary,
	"might": ai.TagAuxiliary, "must": ai.TagAuxiliary,
	// adpositions
	"of": ai.TagAdposition, "in": ai.TagAdposition, "on": ai.TagAdposition,
	"at": ai.TagAdposition, "by": ai.TagAdposition, "for": ai.TagAdposition,
	"with": ai.TagAdposition, "from": ai.TagAdposition, "to": ai.TagAdposition,
	"into": ai.TagAdposition, "over": ai.TagAdposition, "under": ai.TagAdposition,
	"about": ai.TagAdposition, "between": ai.TagAdposition, "through": ai.TagAdposition,
	"during": ai.TagAdposition, "without": ai.TagAdposition, "within": ai.TagAdposition,
	"across": ai.TagAdposition, "after": ai.TagAdposition, "before": ai.TagAdposition,
	// conjunctions
	"and": ai.TagConjunction, "or": ai.TagConjunction, "but": ai.TagConjunction,
	"nor": ai.TagConjunction, "yet": ai.TagConjunction,
	"because": ai.TagSubordinate, "although": ai.TagSubordinate, "if": ai.TagSubordinate,
	"while": ai.TagSubordinate, "when": ai.TagSubordinate, "whereas": ai.TagSubordinate,
	"since": ai.TagSubordinate, "unless": ai.TagSubordinate,
	// particles and adverbs
	"not": ai.TagParticle, "very": ai.TagAdverb, "also": ai.TagAdverb,
	"often": ai.TagAdverb, "never": ai.TagAdverb, "always": ai.TagAdverb,
	"however": ai.TagAdverb, "thus": ai.TagAdverb, "therefore": ai.TagAdverb,
}

var verbSuffixes = []string{"ize", "ise", "ify", "ate"}
var nounSuffixes = []string{"tion", "sion", "ment", "ness", "ity", "ance", "ence", "ship", "ism", "ist"}
var adjSuffixes = []string{"ous", "ful", "ive", "able", "ible", "al", "ic", "less", "ish"}

// Tagger is a rule-based part-of-speech tagger for English.
type Tagger struct{}

var _ ai.Tagger = (*Tagger)(nil)

// NewTagger creates a rule-based tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// Tag returns one Universal POS tag per whitespace token.
// Punctuation attached to a word does not produce its own tag.
func (t *Tagger) Tag(_ context.Context, text string) ([]string, error) {
	return tagTokens(tokens(text)), nil
}

// token is a word with surrounding punctuation removed.
type token struct {
	word  string // lowercase
	upper bool   // first rune is upper case
}

func tokens(text string) []token {
	fields := strings.Fields(text)
	out := make([]token, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w == "" {
			out = append(out, token{word: f})
			continue
		}
		r, _ := utf8.DecodeRuneInString(w)
		out = append(out, token{word: strings.ToLower(w), upper: unicode.IsUpper(r)})
	}
	return out
}

func tagTokens(toks []token) []string {
	tags := make([]string, len(toks))
	hasVerb := false
	for i, tok := range toks {
		tags[i] = tagWord(tok, i)
		if ai.IsVerbal(tags[i]) {
			hasVerb = true
		}
	}
	if hasVerb {
		return tags
	}
	// No verb found: promote the first noun that follows a nominal and
	// looks inflected ("The fox jumps", "Water boiled").
	for i := 1; i < len(toks); i++ {
		if tags[i] != ai.TagNoun || !ai.IsNominal(tags[i-1]) {
			continue
		}
		if looksInflected(toks[i].word) {
			tags[i] = ai.TagVerb
			break
		}
	}
	return tags
}

func tagWord(tok token, pos int) string {
	w := tok.word
	if w == "" {
		return ai.TagPunctuation
	}
	r, _ := utf8.DecodeRuneInString(w)
	if !unicode.IsLetter(r) {
		if unicode.IsDigit(r) {
			return ai.TagNumeral
		}
		return ai.TagSymbol
	}
	if tag, ok := closedClass[w]; ok {
		return tag
	}
	if tok.upper && pos > 0 {
		return ai.TagProperNoun
	}
	if strings.HasSuffix(w, "ly") && len(w) > 4 {
		return ai.TagAdverb
	}
	if hasAnySuffix(w, nounSuffixes) {
		return ai.TagNoun
	}
	if hasAnySuffix(w, adjSuffixes) {
		return ai.TagAdjective
	}
	if hasAnySuffix(w, verbSuffixes) {
		return ai.TagVerb
	}
	if strings.HasSuffix(w, "ed") && len(w) > 4 {
		return ai.TagVerb
	}
	return ai.TagNoun
}

func looksInflected(w string) bool {
	if len(w) < 3 {
		return false
	}
	return strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") ||
		strings.HasSuffix(w, "ed") ||
		strings.HasSuffix(w, "ing")
}

func hasAnySuffix(w string, suffixes []string) bool {
	for _, s := range suffixes {
		if len(w) > len(s)+2 && strings.HasSuffix(w, s) {
			return true
		}
	}
	return false
}
