package core

import (
	"math"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}

	if IDFromContent("a") == IDFromContent("b") {
		t.Error("IDFromContent() produced the same ID for different content")
	}
}

func TestEvidenceTypeRank(t *testing.T) {
	if !(EvidenceExact.Rank() > EvidenceParaphrase.Rank() && EvidenceParaphrase.Rank() > EvidenceIdea.Rank()) {
		t.Error("evidence ranks out of order")
	}
	if EvidenceType("bogus").Valid() {
		t.Error("unknown evidence type reported valid")
	}
}

func TestCandidateConfidenceOrDefault(t *testing.T) {
	c := Candidate{URL: "https://example.com"}
	if got := c.ConfidenceOrDefault(); got != DefaultConfidence {
		t.Errorf("missing confidence = %v, want %v", got, DefaultConfidence)
	}
	c.Confidence = Float64(0.3)
	if got := c.ConfidenceOrDefault(); got != 0.3 {
		t.Errorf("confidence = %v, want 0.3", got)
	}
}

func TestFetchResultText(t *testing.T) {
	var r FetchResult
	if r.HasText() || r.TextOrEmpty() != "" {
		t.Error("zero FetchResult should have no text")
	}
	empty := ""
	r.Text = &empty
	if r.HasText() {
		t.Error("empty text should not count as text")
	}
	body := "body"
	r.Text = &body
	if !r.HasText() || r.TextOrEmpty() != "body" {
		t.Error("expected text to be present")
	}
}

func TestOffsetsLocated(t *testing.T) {
	if Unlocated.Located() {
		t.Error("sentinel offsets reported as located")
	}
	if !(Offsets{Start: 0, End: 4}).Located() {
		t.Error("valid offsets reported as unlocated")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.42, 0.42},
		{1, 1},
		{1.7, 1},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := Clamp01(tt.in); got != tt.want {
			t.Errorf("Clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRound4(t *testing.T) {
	if got := Round4(0.123456); got != 0.1235 {
		t.Errorf("Round4() = %v, want 0.1235", got)
	}
	if got := Round4(0.995); got != 0.995 {
		t.Errorf("Round4() = %v, want 0.995", got)
	}
}

func TestUnknownSourceMetadata(t *testing.T) {
	m := UnknownSourceMetadata()
	for _, v := range []string{m.Author, m.PublicationDate, m.DocumentType, m.Citation} {
		if v != UnknownMetadata {
			t.Errorf("field = %q, want %q", v, UnknownMetadata)
		}
	}
}
