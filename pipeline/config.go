package pipeline

import (
	"fmt"

	"github.com/poiesic/sourcetrace/consolidate"
	"github.com/poiesic/sourcetrace/evidence"
	"github.com/poiesic/sourcetrace/query"
	"github.com/poiesic/sourcetrace/segment"
	"github.com/poiesic/sourcetrace/similarity"
)

// Config gathers the settings of every stage the pipeline drives.
type Config struct {
	Segment     segment.Options     `yaml:"segment"`
	Query       query.Config        `yaml:"query"`
	Similarity  similarity.Config   `yaml:"similarity"`
	Evidence    evidence.Config     `yaml:"evidence"`
	Consolidate consolidate.Options `yaml:"consolidate"`

	// Workers bounds concurrent embedding, tagging and classification calls.
	// Default: 8
	Workers int `yaml:"workers"`

	// MaxConcurrentBlocks bounds how many blocks are processed at once.
	// Default: 4
	MaxConcurrentBlocks int `yaml:"max_concurrent_blocks"`

	// MaxMatches caps the scored source matches reported per block.
	// Default: 10
	MaxMatches int `yaml:"max_matches"`
}

// DefaultConfig returns the default pipeline settings.
func DefaultConfig() Config {
	return Config{
		Segment:             segment.DefaultOptions(),
		Query:               query.DefaultConfig(),
		Similarity:          similarity.DefaultConfig(),
		Evidence:            evidence.DefaultConfig(),
		Consolidate:         consolidate.DefaultOptions(),
		Workers:             8,
		MaxConcurrentBlocks: 4,
		MaxMatches:          10,
	}
}

// Validate checks every stage's settings.
func (c Config) Validate() error {
	if err := c.Segment.Validate(); err != nil {
		return err
	}
	if err := c.Query.Validate(); err != nil {
		return err
	}
	if err := c.Similarity.Validate(); err != nil {
		return err
	}
	if err := c.Evidence.Validate(); err != nil {
		return err
	}
	if err := c.Consolidate.Validate(); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.MaxConcurrentBlocks <= 0 {
		return fmt.Errorf("%w: max_concurrent_blocks must be positive", ErrInvalidConfig)
	}
	if c.MaxMatches <= 0 {
		return fmt.Errorf("%w: max_matches must be positive", ErrInvalidConfig)
	}
	return nil
}
