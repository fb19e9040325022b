package core

import (
	"encoding/binary"
	"math"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier for documents and cached entries.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// EvidenceType classifies how a sentence relates to a source.
type EvidenceType string

const (
	// EvidenceExact marks verbatim (case and whitespace insensitive) reuse.
	EvidenceExact EvidenceType = "exact_match"
	// EvidenceParaphrase marks heavy word overlap without verbatim reuse.
	EvidenceParaphrase EvidenceType = "paraphrased_match"
	// EvidenceIdea marks a sentence with no textual match in any source.
	EvidenceIdea EvidenceType = "idea_similarity"
)

// Rank orders evidence types by strength. Higher is stronger.
func (t EvidenceType) Rank() int {
	switch t {
	case EvidenceExact:
		return 3
	case EvidenceParaphrase:
		return 2
	case EvidenceIdea:
		return 1
	default:
		return 0
	}
}

// Valid reports whether t is one of the known evidence types.
func (t EvidenceType) Valid() bool {
	return t.Rank() > 0
}

// Section is a named region of a document.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Document is the unit of analysis.
// When Sections is empty the text is split into sections heuristically.
type Document struct {
	ID       string    `json:"id"`
	Text     string    `json:"text"`
	Sections []Section `json:"sections,omitempty"`
}

// Chunk is a fixed-size overlapping window over a section's words.
type Chunk struct {
	ID        string `json:"chunk_id"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	StartWord int    `json:"start_word"` // inclusive index into the section's word sequence
	EndWord   int    `json:"end_word"`   // exclusive
}

// Block is a size-normalized span of text, the unit of retrieval and matching.
type Block struct {
	ID             string   `json:"block_id"`
	Section        string   `json:"section"`
	Text           string   `json:"text"`
	SourceChunkIDs []string `json:"source_chunk_ids"`
	WordCount      int      `json:"word_count"`
	StartWord      int      `json:"start_word"`
	EndWord        int      `json:"end_word"`
	// Sentences are the whole sentences that start inside this block. Each
	// sentence of a section belongs to exactly one block, even where block
	// spans overlap.
	Sentences []string `json:"sentences,omitempty"`
}

// Query is the search query generated for a block.
type Query struct {
	Text         string   `json:"query"`
	KeySentences []string `json:"key_sentences"`
}

// Candidate is a prospective source returned by a search provider.
type Candidate struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	// Origin names the provider that produced the candidate.
	Origin string `json:"origin"`
	// Confidence is the provider-reported relevance, nil when not reported.
	Confidence *float64 `json:"confidence,omitempty"`
}

// DefaultConfidence is assumed for candidates that carry no score.
const DefaultConfidence = 1.0

// ConfidenceOrDefault returns the reported confidence or DefaultConfidence.
func (c Candidate) ConfidenceOrDefault() float64 {
	if c.Confidence == nil {
		return DefaultConfidence
	}
	return *c.Confidence
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}

// FetchResult is the outcome of fetching a candidate URL.
// Text is nil when the fetch failed, extraction produced nothing, or the
// resource was skipped as binary.
type FetchResult struct {
	URL          string  `json:"url"`
	Text         *string `json:"text,omitempty"`
	SkippedAsPDF bool    `json:"skipped_as_pdf"`
}

// HasText reports whether usable source text is present.
func (r FetchResult) HasText() bool {
	return r.Text != nil && *r.Text != ""
}

// TextOrEmpty returns the fetched text or "".
func (r FetchResult) TextOrEmpty() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

// Offsets locate a sentence in the raw document text by byte position.
type Offsets struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Unlocated is the sentinel for sentences that cannot be found in the raw text.
var Unlocated = Offsets{Start: -1, End: -1}

// Located reports whether o points into the document.
func (o Offsets) Located() bool {
	return o.Start >= 0 && o.End >= o.Start
}

// EvidenceItem is one sentence-level finding against one source.
type EvidenceItem struct {
	Sentence           string       `json:"sentence"`
	Type               EvidenceType `json:"type"`
	SourceText         string       `json:"source_text"`
	SourceURL          string       `json:"source_url"`
	PlagiarismScore    float64      `json:"plagiarism_score"`
	SemanticSimilarity float64      `json:"semantic_similarity"`
	DocumentOffsets    *Offsets     `json:"document_offsets,omitempty"`
}

// SourceMetadata describes a cited source. Unknown fields hold "Unknown".
type SourceMetadata struct {
	Author          string `json:"author"`
	PublicationDate string `json:"publication_date"`
	DocumentType    string `json:"document_type"`
	Citation        string `json:"citation"`
}

// UnknownMetadata is the value used when nothing is known about a source.
const UnknownMetadata = "Unknown"

// UnknownSourceMetadata returns metadata with every field set to UnknownMetadata.
func UnknownSourceMetadata() SourceMetadata {
	return SourceMetadata{
		Author:          UnknownMetadata,
		PublicationDate: UnknownMetadata,
		DocumentType:    UnknownMetadata,
		Citation:        UnknownMetadata,
	}
}

// CleanedSource is one source attributed to a consolidated sentence.
type CleanedSource struct {
	SourceText      string          `json:"source_text"`
	SourceURL       string          `json:"source_url"`
	Type            EvidenceType    `json:"match_type"`
	Score           float64         `json:"score"`
	DocumentOffsets Offsets         `json:"document_offsets"`
	Metadata        *SourceMetadata `json:"metadata,omitempty"`
}

// CleanedSentence is the consolidated view of every finding for one sentence.
type CleanedSentence struct {
	Sentence        string          `json:"sentence"`
	Sources         []CleanedSource `json:"sources"`
	Occurrences     int             `json:"occurrences"`
	AggregatedScore float64         `json:"aggregated_score"`
}

// Verdict is the single strongest finding chosen for a sentence.
type Verdict struct {
	BlockID            string       `json:"block_id"`
	Sentence           string       `json:"sentence"`
	Type               EvidenceType `json:"type"`
	SourceURL          string       `json:"source_url"`
	SourceText         string       `json:"source_text"`
	PlagiarismScore    float64      `json:"plagiarism_score"`
	SemanticSimilarity float64      `json:"semantic_similarity"`
	DocumentOffsets    Offsets      `json:"document_offsets"`
}

// SimilarityScores is the full signal vector for a text pair.
type SimilarityScores struct {
	Lexical     float64 `json:"lexical"`
	Grammatical float64 `json:"grammatical"`
	Semantic    float64 `json:"semantic"`
	Fingerprint float64 `json:"fingerprint"`
	Exact       float64 `json:"exact"`
	Combined    float64 `json:"combined"`
	Label       string  `json:"label"`
}

// SourceMatch scores a whole block against one candidate source.
type SourceMatch struct {
	Candidate       Candidate        `json:"candidate"`
	Fetched         bool             `json:"fetched"`
	SkippedAsPDF    bool             `json:"skipped_as_pdf"`
	CoveragePercent float64          `json:"coverage_percent"`
	Scores          SimilarityScores `json:"scores"`
}

// BlockResult carries everything found for one block.
type BlockResult struct {
	BlockID        string         `json:"block_id"`
	Section        string         `json:"section"`
	Query          Query          `json:"query"`
	Candidates     []Candidate    `json:"candidates"`
	Matches        []SourceMatch  `json:"matches"`
	Evidence       []EvidenceItem `json:"evidence"`
	SkippedPDFURLs []string       `json:"skipped_pdf_urls,omitempty"`
}

// DocumentResult is the final output of an analysis run.
type DocumentResult struct {
	DocID     string            `json:"doc_id"`
	Blocks    []BlockResult     `json:"blocks"`
	Sentences []CleanedSentence `json:"sentences,omitempty"`
	Verdicts  []Verdict         `json:"verdicts,omitempty"`
}

// Clamp01 bounds v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Round4 rounds v to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
