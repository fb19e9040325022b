package ai

import "strings"

// Universal part-of-speech tags produced by Tagger implementations.
const (
	TagAdjective   = "ADJ"
	TagAdposition  = "ADP"
	TagAdverb      = "ADV"
	TagAuxiliary   = "AUX"
	TagConjunction = "CCONJ"
	TagDeterminer  = "DET"
	TagNoun        = "NOUN"
	TagNumeral     = "NUM"
	TagParticle    = "PART"
	TagPronoun     = "PRON"
	TagProperNoun  = "PROPN"
	TagPunctuation = "PUNCT"
	TagSubordinate = "SCONJ"
	TagSymbol      = "SYM"
	TagVerb        = "VERB"
	TagOther       = "X"
)

// Tags lists every valid tag. Model output outside this list is mapped to TagOther.
var Tags = []string{
	TagAdjective, TagAdposition, TagAdverb, TagAuxiliary, TagConjunction,
	TagDeterminer, TagNoun, TagNumeral, TagParticle, TagPronoun,
	TagProperNoun, TagPunctuation, TagSubordinate, TagSymbol, TagVerb,
	TagOther,
}

// IsVerbal reports whether tag marks a finite verb or auxiliary.
func IsVerbal(tag string) bool {
	return tag == TagVerb || tag == TagAuxiliary
}

// IsNominal reports whether tag can head a subject.
func IsNominal(tag string) bool {
	return tag == TagNoun || tag == TagProperNoun || tag == TagPronoun || tag == TagNumeral
}

// NormalizeTag maps tag onto the Universal tag set.
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	for _, t := range Tags {
		if t == tag {
			return t
		}
	}
	return TagOther
}
