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


package badger

import "github.com/poiesic/sourcetrace/storage"

// NewMemoryBackendCache creates an in-memory backend and a cache over it for
// tests that need to inspect the backend. Caller must close both.
func NewMemoryBackendCache(opts ...Option) (storage.FetchCache, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, err
	}
	cache, err := NewFetchCache(backend, opts...)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	return cache, backend, nil
}
