package memory

import "github.com/roach88/nars/internal/ir"

// EmissionKind distinguishes answers from other derived output.
type EmissionKind string

const (
	EmitAnswer  EmissionKind = "answer"
	EmitDerived EmissionKind = "derived"
)

// Emission is a sentence memory reports to the outside world.
type Emission struct {
	Kind     EmissionKind
	Cycle    int64
	Sentence ir.Sentence
	Budget   ir.Budget
	// Question is set for answers.
	Question *ir.Sentence
}
