// Package consolidate reduces raw evidence into per-sentence views.
//
// Two policies are supported. TopN keeps up to three scored sources for
// every distinct sentence and reports how many findings existed before
// truncation. Priority picks one verdict per sentence, preferring exact
// matches over confident paraphrases, plain paraphrases and idea evidence
// in that order. Both are pure functions of their input.
package consolidate
