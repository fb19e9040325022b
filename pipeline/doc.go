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


// Package pipeline runs a document through the whole evidence workflow.
//
// Process segments the document into blocks and handles every block
// concurrently: it generates a query, retrieves candidates, fetches their
// text, scores each source against the block and runs the evidence
// matchers. Once every block is done the evidence is consolidated across
// the document.
//
// Two executors cooperate. Network work (retrieval and fetching) runs on
// goroutines bounded by the fetch manager's semaphores. Embedding, tagging
// and classification are handed to a bounded ants worker pool and awaited,
// so CPU-heavy model work never exceeds the configured worker count no
// matter how many blocks are in flight.
//
// A block never fails because a provider or URL failed; only cancellation
// of the context aborts Process.
package pipeline
