package fetch

import (
	"fmt"
	"time"
)

// DefaultUserAgent identifies sourcetrace to remote servers.
const DefaultUserAgent = "Mozilla/5.0 (compatible; sourcetrace/1.0)"

// Config holds fetch limits.
type Config struct {
	// Timeout bounds one complete fetch including the body read.
	Timeout time.Duration `yaml:"timeout"`
	// MaxBodyBytes caps how much of a response body is read.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// MaxTextChars caps the extracted text, in characters.
	MaxTextChars int `yaml:"max_text_chars"`
	// MaxConcurrent is the global fetch limit shared by all blocks.
	MaxConcurrent int `yaml:"max_concurrent"`
	// PerBlock is the fetch limit within a single block.
	PerBlock int `yaml:"per_block"`
	// AllowBinary enables downloading and extracting PDFs and office files.
	AllowBinary bool `yaml:"allow_binary"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent"`
}

// DefaultConfig returns the standard fetch limits.
func DefaultConfig() Config {
	return Config{
		Timeout:       30 * time.Second,
		MaxBodyBytes:  5 << 20,
		MaxTextChars:  20000,
		MaxConcurrent: 20,
		PerBlock:      5,
		UserAgent:     DefaultUserAgent,
	}
}

// Validate checks that every limit is positive.
func (c Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	case c.MaxTextChars <= 0:
		return fmt.Errorf("%w: max_text_chars must be positive", ErrInvalidConfig)
	case c.MaxConcurrent <= 0:
		return fmt.Errorf("%w: max_concurrent must be positive", ErrInvalidConfig)
	case c.PerBlock <= 0:
		return fmt.Errorf("%w: per_block must be positive", ErrInvalidConfig)
	}
	return nil
}
