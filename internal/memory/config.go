package memory

import (
	"fmt"

	"github.com/roach88/nars/internal/inference"
)

// Config sizes and tunes a Memory.
type Config struct {
	ConceptCapacity  int // concepts in memory
	TermLinkCapacity int // term links per concept
	TaskLinkCapacity int // task links per concept
	Levels           int // priority levels per bag

	BeliefCapacity int // beliefs (and goals) per concept
	TaskCapacity   int // pending questions per concept

	IntakeLimit    int // tasks drained from the buffer per cycle
	IntakeCapacity int // buffer size before the oldest task is dropped

	// EmissionThreshold is the budget summary a derived judgment needs to
	// be reported to outputs.
	EmissionThreshold float64
	// ForgetRate scales how much priority an item loses when put back.
	ForgetRate float64
	// Seed drives bag selection.
	Seed uint64

	Inference inference.Config
}

// DefaultConfig returns the standard sizes.
func DefaultConfig() Config {
	return Config{
		ConceptCapacity:   1000,
		TermLinkCapacity:  100,
		TaskLinkCapacity:  100,
		Levels:            100,
		BeliefCapacity:    7,
		TaskCapacity:      20,
		IntakeLimit:       10,
		IntakeCapacity:    4096,
		EmissionThreshold: 0.3,
		ForgetRate:        1,
		Seed:              1,
		Inference:         inference.DefaultConfig(),
	}
}

// Validate checks every constraint a Memory relies on.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    int
	}{
		{"concept capacity", c.ConceptCapacity},
		{"term link capacity", c.TermLinkCapacity},
		{"task link capacity", c.TaskLinkCapacity},
		{"belief capacity", c.BeliefCapacity},
		{"task capacity", c.TaskCapacity},
		{"intake limit", c.IntakeLimit},
		{"intake capacity", c.IntakeCapacity},
	}
	for _, p := range positive {
		if p.v < 1 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.v)
		}
	}
	if c.Levels < 2 {
		return fmt.Errorf("levels must be at least 2, got %d", c.Levels)
	}
	if c.EmissionThreshold < 0 || c.EmissionThreshold > 1 {
		return fmt.Errorf("emission threshold must be in [0,1], got %g", c.EmissionThreshold)
	}
	if c.ForgetRate <= 0 || c.ForgetRate > 1 {
		return fmt.Errorf("forget rate must be in (0,1], got %g", c.ForgetRate)
	}
	if c.Inference.Reliance <= 0 || c.Inference.Reliance >= 1 {
		return fmt.Errorf("reliance must be in (0,1), got %g", c.Inference.Reliance)
	}
	if c.Inference.BudgetThreshold < 0 || c.Inference.BudgetThreshold >= 1 {
		return fmt.Errorf("budget threshold must be in [0,1), got %g", c.Inference.BudgetThreshold)
	}
	if c.Inference.DerivationDepth < 0 {
		return fmt.Errorf("derivation depth must not be negative, got %d", c.Inference.DerivationDepth)
	}
	return nil
}
