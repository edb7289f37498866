package ir

import (
	"fmt"
	"math"
)

// Budget is the attention allocation of a task, link or concept.
type Budget struct {
	Priority   float64 `json:"priority" yaml:"priority"`
	Durability float64 `json:"durability" yaml:"durability"`
	Quality    float64 `json:"quality" yaml:"quality"`
}

// NewBudget validates and returns a budget.
func NewBudget(priority, durability, quality float64) (Budget, error) {
	b := Budget{Priority: priority, Durability: durability, Quality: quality}
	if err := b.Validate(); err != nil {
		return Budget{}, err
	}
	return b, nil
}

// Validate checks that every field is in [0,1].
func (b Budget) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"priority", b.Priority},
		{"durability", b.Durability},
		{"quality", b.Quality},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return &RangeError{Field: f.name, Value: f.v}
		}
	}
	return nil
}

// Summary is the geometric mean of the three fields. It is the single
// number compared against emission and derivation thresholds.
func (b Budget) Summary() float64 {
	return math.Cbrt(b.Priority * b.Durability * b.Quality)
}

// Equal compares within Epsilon.
func (b Budget) Equal(o Budget) bool {
	return math.Abs(b.Priority-o.Priority) < Epsilon &&
		math.Abs(b.Durability-o.Durability) < Epsilon &&
		math.Abs(b.Quality-o.Quality) < Epsilon
}

// String renders the Narsese budget prefix, e.g. $0.80;0.50;0.95$.
func (b Budget) String() string {
	return fmt.Sprintf("$%.2f;%.2f;%.2f$", b.Priority, b.Durability, b.Quality)
}
