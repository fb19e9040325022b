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


// Package storage defines the run-scoped fetch cache used by sourcetrace.
//
// The cache is keyed by URL and is write-once per key: the first stored
// FetchResult wins and every later Put returns it unchanged. Failed fetches
// are cached too, as results with a nil Text, so a URL that failed once is
// not fetched again in the same run.
//
// # Constructor Return Type Pattern
//
// Public constructors return the FetchCache interface:
//
//	cache := memory.NewFetchCache()           // storage.FetchCache
//	cache, err := badger.NewMemoryFetchCache() // storage.FetchCache
//
// # Implementations
//
//   - memory: map guarded by a RWMutex; the default
//   - badger: BadgerDB, in-memory by default, with optional on-disk
//     persistence and per-entry TTL
//
// # Serialization
//
// Results are encoded with mus-go ord/varint serializers (see
// serialization.go). The encoding records whether text is present, so a
// cached failure round-trips as a nil Text rather than an empty string.
package storage
