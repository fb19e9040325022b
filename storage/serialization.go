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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"

	"github.com/poiesic/sourcetrace/core"
)

// MarshalFetchResult serializes a FetchResult to bytes.
//
// Layout: url string, skipped bool, has-text bool, then the text when present.
func MarshalFetchResult(result core.FetchResult) []byte {
	hasText := result.Text != nil
	size := ord.String.Size(result.URL) + ord.Bool.Size(result.SkippedAsPDF) + ord.Bool.Size(hasText)
	if hasText {
		size += ord.String.Size(*result.Text)
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(result.URL, buf)
	n += ord.Bool.Marshal(result.SkippedAsPDF, buf[n:])
	n += ord.Bool.Marshal(hasText, buf[n:])
	if hasText {
		ord.String.Marshal(*result.Text, buf[n:])
	}
	return buf
}

// UnmarshalFetchResult deserializes a FetchResult from bytes.
func UnmarshalFetchResult(data []byte) (core.FetchResult, error) {
	var result core.FetchResult
	if len(data) == 0 {
		return result, ErrTruncatedData
	}

	url, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return result, fmt.Errorf("%w: url: %v", ErrSerializationFailed, err)
	}
	off := n

	skipped, n, err := ord.Bool.Unmarshal(data[off:])
	if err != nil {
		return result, fmt.Errorf("%w: skipped flag: %v", ErrSerializationFailed, err)
	}
	off += n

	hasText, n, err := ord.Bool.Unmarshal(data[off:])
	if err != nil {
		return result, fmt.Errorf("%w: text flag: %v", ErrSerializationFailed, err)
	}
	off += n

	result.URL = url
	result.SkippedAsPDF = skipped
	if hasText {
		text, _, err := ord.String.Unmarshal(data[off:])
		if err != nil {
			return result, fmt.Errorf("%w: text: %v", ErrSerializationFailed, err)
		}
		result.Text = &text
	}
	return result, nil
}
