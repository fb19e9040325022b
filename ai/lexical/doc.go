// Package lexical provides deterministic implementations of the ai
// capabilities that run without any model or network access.
//
// The Tagger assigns Universal POS tags from closed-class word lists and
// suffix rules. The Classifier builds on the Tagger: a sentence is
// meaningful when it has enough words, a verb, and a nominal before that
// verb. The Embedder hashes word unigrams and character trigrams into a
// fixed-size, L2-normalized vector.
//
// These implementations are the default backend for offline runs and
// produce stable scores across runs and machines.
package lexical
