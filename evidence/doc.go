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


// Package evidence turns (sentence, source) pairs into typed evidence.
//
// Four strategies are provided:
//
//   - ExactMatcher: verbatim reuse after case and whitespace normalization
//   - FingerprintMatcher: winnowed character k-gram coverage between texts
//   - ParaphraseMatcher: heavy word overlap without verbatim reuse
//   - IdeaMatcher: low-confidence fallback for unmatched sentences
//
// BlockMatcher runs them over all sources of one block in a fixed order:
// exact matching across every source completes before paraphrase matching
// sees the sentences left over, and every sentence claimed by neither gets
// exactly one idea item. Sentences the Screener rejects as not meaningful
// skip straight to idea evidence.
package evidence
