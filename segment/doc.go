// Package segment turns document text into size-normalized blocks.
//
// Text is first windowed into overlapping chunks of roughly TargetWords
// words that try to end on a sentence boundary. Chunks are then merged
// into blocks of MinWords to MaxWords words, which are the unit of
// retrieval and matching downstream.
package segment
