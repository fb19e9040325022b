package segment

import "fmt"

// Options controls chunking and block merging.
type Options struct {
	// TargetWords is the chunk window size in words.
	TargetWords int `yaml:"target_words"`
	// Overlap is the fraction of a window repeated in the next window.
	Overlap float64 `yaml:"overlap"`
	// MaxExpand is how many extra words a window may take to finish a sentence.
	MaxExpand int `yaml:"max_expand"`
	// MinWords is the smallest block size before folding into the successor.
	MinWords int `yaml:"min_words"`
	// MaxWords is the largest block size before re-splitting at sentences.
	MaxWords int `yaml:"max_words"`
}

// DefaultOptions returns the standard segmentation parameters.
func DefaultOptions() Options {
	return Options{
		TargetWords: 150,
		Overlap:     0.30,
		MaxExpand:   40,
		MinWords:    200,
		MaxWords:    400,
	}
}

// Validate checks that the options describe a usable segmentation.
func (o Options) Validate() error {
	if o.TargetWords <= 0 {
		return fmt.Errorf("%w: target_words must be positive", ErrInvalidOptions)
	}
	if o.Overlap < 0 || o.Overlap >= 1 {
		return fmt.Errorf("%w: overlap must be within [0, 1)", ErrInvalidOptions)
	}
	if o.MaxExpand < 0 {
		return fmt.Errorf("%w: max_expand cannot be negative", ErrInvalidOptions)
	}
	if o.MinWords < 0 || o.MaxWords <= 0 || o.MinWords > o.MaxWords {
		return fmt.Errorf("%w: require 0 <= min_words <= max_words and max_words > 0", ErrInvalidOptions)
	}
	return nil
}

func (o Options) step() int {
	step := o.TargetWords - int(float64(o.TargetWords)*o.Overlap)
	if step < 1 {
		step = 1
	}
	return step
}
