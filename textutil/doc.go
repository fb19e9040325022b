// Package textutil provides the text primitives shared by segmentation,
// query generation, similarity scoring and evidence matching: sentence
// splitting with byte offsets, word tokenization, n-gram sets,
// normalization and citation cleanup.
package textutil
