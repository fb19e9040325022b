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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidEvidence indicates an EvidenceItem failed validation.
	ErrInvalidEvidence = errors.New("invalid evidence item")

	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyContent indicates the text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyURL indicates a required URL is missing.
	ErrEmptyURL = errors.New("url cannot be empty")

	// ErrInvalidEvidenceType indicates an unknown EvidenceType value.
	ErrInvalidEvidenceType = errors.New("invalid evidence type")

	// ErrScoreOutOfRange indicates a score outside [0, 1].
	ErrScoreOutOfRange = errors.New("score must be within [0, 1]")
)
