package similarity

import (
	"fmt"
	"math"
)

// Labels assigned to combined scores.
const (
	LabelHigh   = "high"
	LabelMedium = "medium"
	LabelLow    = "low"
)

// Weights sets the contribution of each signal to the combined score.
type Weights struct {
	Lexical     float64 `yaml:"lexical"`
	Grammatical float64 `yaml:"grammatical"`
	Semantic    float64 `yaml:"semantic"`
	Fingerprint float64 `yaml:"fingerprint"`
	Exact       float64 `yaml:"exact"`
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		Lexical:     0.25,
		Grammatical: 0.15,
		Semantic:    0.35,
		Fingerprint: 0.10,
		Exact:       0.15,
	}
}

// Validate checks that no weight is negative and that the weights sum to 1.
func (w Weights) Validate() error {
	for _, v := range []float64{w.Lexical, w.Grammatical, w.Semantic, w.Fingerprint, w.Exact} {
		if v < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrInvalidWeights, v)
		}
	}
	sum := w.Lexical + w.Grammatical + w.Semantic + w.Fingerprint + w.Exact
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidWeights, sum)
	}
	return nil
}

// Thresholds map combined scores onto labels.
type Thresholds struct {
	High   float64 `yaml:"high"`
	Medium float64 `yaml:"medium"`
}

// DefaultThresholds returns the standard label thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.85, Medium: 0.60}
}

// Validate checks 0 <= Medium <= High <= 1.
func (t Thresholds) Validate() error {
	if t.Medium < 0 || t.High > 1 || t.Medium > t.High {
		return fmt.Errorf("%w: require 0 <= medium <= high <= 1", ErrInvalidThresholds)
	}
	return nil
}

// Label returns "high", "medium" or "low" for score.
func (t Thresholds) Label(score float64) string {
	switch {
	case score >= t.High:
		return LabelHigh
	case score >= t.Medium:
		return LabelMedium
	default:
		return LabelLow
	}
}

// Config groups the engine's tunables.
type Config struct {
	Weights    Weights    `yaml:"weights"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// DefaultConfig returns the standard weights and thresholds.
func DefaultConfig() Config {
	return Config{Weights: DefaultWeights(), Thresholds: DefaultThresholds()}
}

// Validate checks both weights and thresholds.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	return c.Thresholds.Validate()
}
