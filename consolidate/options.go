package consolidate

import (
	"fmt"
	"strings"
)

// Mode selects the consolidation policy.
type Mode string

const (
	// ModeTopN keeps the best few sources per sentence.
	ModeTopN Mode = "topn"
	// ModePriority keeps a single verdict per sentence.
	ModePriority Mode = "priority"
)

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTopN, ModePriority:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Options controls consolidation.
type Options struct {
	Mode Mode `yaml:"mode"`
	// MaxOccurrences is the largest evidence count kept without truncation.
	MaxOccurrences int `yaml:"max_occurrences"`
	// MaxSources is how many sources survive truncation.
	MaxSources int `yaml:"max_sources"`
	// HighSemantic and HighPlagiarism define a confident paraphrase in
	// priority mode; meeting either is enough.
	HighSemantic   float64 `yaml:"high_semantic"`
	HighPlagiarism float64 `yaml:"high_plagiarism"`
}

// DefaultOptions returns the standard consolidation settings.
func DefaultOptions() Options {
	return Options{
		Mode:           ModeTopN,
		MaxOccurrences: 3,
		MaxSources:     3,
		HighSemantic:   0.85,
		HighPlagiarism: 0.90,
	}
}

// Validate checks the options.
func (o Options) Validate() error {
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.MaxSources <= 0 || o.MaxOccurrences <= 0 {
		return fmt.Errorf("%w: max_sources and max_occurrences must be positive", ErrInvalidOptions)
	}
	if o.MaxOccurrences > o.MaxSources {
		return fmt.Errorf("%w: max_occurrences must not exceed max_sources", ErrInvalidOptions)
	}
	if o.HighSemantic < 0 || o.HighSemantic > 1 || o.HighPlagiarism < 0 || o.HighPlagiarism > 1 {
		return fmt.Errorf("%w: priority thresholds must be within [0, 1]", ErrInvalidOptions)
	}
	return nil
}
