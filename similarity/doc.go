// Package similarity scores text pairs on five independent signals and
// combines them into a single weighted score with a confidence label.
//
// The signals are lexical (word 3-gram Jaccard), grammatical (POS-tag
// 3-gram Jaccard), semantic (cosine of embeddings mapped to [0, 1]),
// fingerprint (Jaccard of hashed 5-word shingles) and exact (the share of
// the first text's words present in the second). Every signal lies in
// [0, 1]. A signal whose capability fails scores 0 and the rest of the
// computation proceeds.
package similarity
