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


// Package ai provides abstractions for the language capabilities the
// evidence engine consumes.
//
// This package defines interfaces for text embeddings, part-of-speech
// tagging and sentence meaningfulness classification. The matching and
// scoring packages depend only on these abstractions, never on a concrete
// model.
//
// # Interfaces
//
//   - Embedder: Generates vector embeddings from text
//   - Tagger: Produces one Universal POS tag per token
//   - SentenceClassifier: Decides whether a sentence has a verb and a subject
//   - Provider: Aggregates the capabilities for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: OpenAI-compatible services through langchaingo
//   - ai/lexical: Deterministic rule-based capabilities that need no network
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// Public constructors such as openai.NewProvider return the interface
// types. The mock constructors return concrete types so that tests can
// inject behavior and inspect calls.
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithBackend(ai.BackendOpenAI))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vectors, err := provider.Embedder().EmbedTexts(ctx, sentences)
//	ok, err := provider.Classifier().IsMeaningful(ctx, "Water boils at 100 degrees.")
package ai
