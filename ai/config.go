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


package ai

import (
	"errors"
	"strings"
)

const (
	// BackendLexical selects the deterministic offline capabilities in ai/lexical.
	BackendLexical = "lexical"
	// BackendOpenAI selects OpenAI-compatible services through ai/openai.
	BackendOpenAI = "openai"
)

// Config holds configuration for AI service providers.
type Config struct {
	// Backend chooses the capability implementation: "lexical" or "openai".
	// Default: "lexical"
	Backend string `yaml:"backend"`

	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string `yaml:"embedding_host"`

	// AnalyzerHost is the base URL for the tagging/classification service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	AnalyzerHost string `yaml:"analyzer_host"`

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "embeddinggemma", "text-embedding-3-small"
	EmbeddingModel string `yaml:"embedding_model"`

	// AnalyzerModel is the chat model used for tagging and classification.
	// Example: "qwen2.5:3b", "gpt-4o-mini"
	AnalyzerModel string `yaml:"analyzer_model"`

	// APIKey is sent as the bearer token. Local servers accept any value.
	APIKey string `yaml:"api_key"`

	// MinSentenceWords is the fewest words a meaningful sentence may have.
	// Default: 3
	MinSentenceWords int `yaml:"min_sentence_words"`

	// Dimensions is the vector size of the lexical embedder.
	// Default: 256
	Dimensions int `yaml:"dimensions"`
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBackend selects the capability implementation.
func WithBackend(backend string) ConfigOption {
	return func(c *Config) {
		c.Backend = backend
	}
}

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithAnalyzerHost sets the analyzer service host URL.
func WithAnalyzerHost(host string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerHost = host
	}
}

// WithHost sets both embedding and analyzer hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.AnalyzerHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithAnalyzerModel sets the analyzer model identifier.
func WithAnalyzerModel(model string) ConfigOption {
	return func(c *Config) {
		c.AnalyzerModel = model
	}
}

// WithAPIKey sets the bearer token for remote services.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithMinSentenceWords sets the minimum length of a meaningful sentence.
func WithMinSentenceWords(n int) ConfigOption {
	return func(c *Config) {
		c.MinSentenceWords = n
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and analyzer use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		Backend:          BackendLexical,
		EmbeddingHost:    defaultHost,
		AnalyzerHost:     defaultHost,
		EmbeddingModel:   "embeddinggemma",
		AnalyzerModel:    "qwen2.5:3b",
		MinSentenceWords: 3,
		Dimensions:       256,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBackend(BackendOpenAI),
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	c.EmbeddingHost = withV1Suffix(c.EmbeddingHost)
	c.AnalyzerHost = withV1Suffix(c.AnalyzerHost)
}

func withV1Suffix(host string) string {
	if host == "" || strings.HasSuffix(host, "/v1") {
		return host
	}
	return strings.TrimSuffix(host, "/") + "/v1"
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
// Hosts and models are only required by the openai backend.
func (c *Config) Validate() error {
	c.Normalize()

	if c.MinSentenceWords < 1 {
		return errors.New("ai config: MinSentenceWords must be at least 1")
	}
	switch c.Backend {
	case BackendLexical:
		if c.Dimensions < 8 {
			return errors.New("ai config: Dimensions must be at least 8")
		}
	case BackendOpenAI:
		if c.EmbeddingHost == "" {
			return errors.New("ai config: EmbeddingHost is required")
		}
		if c.AnalyzerHost == "" {
			return errors.New("ai config: AnalyzerHost is required")
		}
		if c.EmbeddingModel == "" {
			return errors.New("ai config: EmbeddingModel is required")
		}
		if c.AnalyzerModel == "" {
			return errors.New("ai config: AnalyzerModel is required")
		}
	default:
		return errors.New("ai config: Backend must be \"lexical\" or \"openai\"")
	}
	return nil
}
