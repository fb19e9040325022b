package query

import (
	"fmt"
	"strings"
)

// DefaultTemplate prefixes the key sentences of every query.
const DefaultTemplate = "Find authoritative web sources, articles, or publications, " +
	"preferably from sources like Google, BBC, IEEE, Medium, Google News, Google Scholar, " +
	"but other relevant sources are also acceptable, that discuss: "

// Config holds query generation settings.
type Config struct {
	// MaxSentences is how many key sentences are kept. Default: 3
	MaxSentences int `yaml:"max_sentences"`

	// MaxChars bounds the joined key sentences, cut at a word boundary.
	// Default: 200
	MaxChars int `yaml:"max_chars"`

	// Template is the instruction the key sentences are appended to.
	Template string `yaml:"template"`
}

// DefaultConfig returns the default query settings.
func DefaultConfig() Config {
	return Config{
		MaxSentences: 3,
		MaxChars:     200,
		Template:     DefaultTemplate,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.MaxSentences <= 0 {
		return fmt.Errorf("%w: max_sentences must be positive", ErrInvalidConfig)
	}
	if c.MaxChars <= 0 {
		return fmt.Errorf("%w: max_chars must be positive", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Template) == "" {
		return fmt.Errorf("%w: template must not be empty", ErrInvalidConfig)
	}
	return nil
}
