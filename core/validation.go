// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateDocument validates a Document before analysis.
//
// Validation rules:
//   - Text must not be blank unless sections are given
//   - Section names may be empty, but section text must not be blank
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if strings.TrimSpace(doc.Text) == "" && len(doc.Sections) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}
	for i, s := range doc.Sections {
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("%w: section %d: %w", ErrInvalidDocument, i, ErrEmptyContent)
		}
	}
	return nil
}

// ValidateEvidence validates an EvidenceItem according to domain rules.
//
// Validation rules:
//   - Sentence must not be empty
//   - Type must be a known EvidenceType
//   - Scores must lie within [0, 1]
//   - Exact and paraphrase evidence must name a source URL
//
// Idea evidence carries no source text and may carry no URL.
func ValidateEvidence(item *EvidenceItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidEvidence)
	}
	if item.Sentence == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrEmptyContent)
	}
	if !item.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEvidence, ErrInvalidEvidenceType, item.Type)
	}
	if !inUnitRange(item.PlagiarismScore) || !inUnitRange(item.SemanticSimilarity) {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrScoreOutOfRange)
	}
	if item.Type != EvidenceIdea && item.SourceURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEvidence, ErrEmptyURL)
	}
	return nil
}

// ValidateCandidate validates a Candidate returned by a provider.
func ValidateCandidate(c *Candidate) error {
	if c == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyURL)
	}
	return nil
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
