package ir

import (
	"fmt"
	"math"
)

// MaxConfidence is the ceiling for any computed confidence. Confidence 1
// would mean infinite evidence, which the logic excludes.
const MaxConfidence = 0.9999

// Epsilon is the tolerance used when comparing truth and budget values.
const Epsilon = 1e-6

// Truth is a (frequency, confidence) pair.
type Truth struct {
	Frequency  float64 `json:"frequency" yaml:"frequency"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// NewTruth validates and returns a truth value.
func NewTruth(frequency, confidence float64) (Truth, error) {
	t := Truth{Frequency: frequency, Confidence: confidence}
	if err := t.Validate(); err != nil {
		return Truth{}, err
	}
	return t, nil
}

// Validate checks f ∈ [0,1] and c ∈ [0,1).
func (t Truth) Validate() error {
	if math.IsNaN(t.Frequency) || t.Frequency < 0 || t.Frequency > 1 {
		return &RangeError{Field: "frequency", Value: t.Frequency}
	}
	if math.IsNaN(t.Confidence) || t.Confidence < 0 || t.Confidence >= 1 {
		return &RangeError{Field: "confidence", Value: t.Confidence}
	}
	return nil
}

// Expectation returns c*(f-0.5)+0.5.
func (t Truth) Expectation() float64 {
	return t.Confidence*(t.Frequency-0.5) + 0.5
}

// Equal compares within Epsilon.
func (t Truth) Equal(o Truth) bool {
	return math.Abs(t.Frequency-o.Frequency) < Epsilon &&
		math.Abs(t.Confidence-o.Confidence) < Epsilon
}

// String renders the Narsese truth suffix, e.g. %1.00;0.90%.
func (t Truth) String() string {
	return fmt.Sprintf("%%%.2f;%.2f%%", t.Frequency, t.Confidence)
}
