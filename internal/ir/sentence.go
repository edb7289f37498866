package ir

import (
	"fmt"

	"github.com/roach88/nars/internal/term"
)

// Punctuation is the sentence type.
type Punctuation string

const (
	Judgment Punctuation = "."
	Question Punctuation = "?"
	Goal     Punctuation = "!"
)

// Valid reports whether p is one of the three sentence types.
func (p Punctuation) Valid() bool {
	return p == Judgment || p == Question || p == Goal
}

// HasTruth reports whether sentences of this type carry a truth value.
func (p Punctuation) HasTruth() bool {
	return p == Judgment || p == Goal
}

// Sentence is a term with punctuation, optional truth and a stamp.
// Questions have no truth; judgments and goals always do.
type Sentence struct {
	Term        term.ID     `json:"term"`
	Punctuation Punctuation `json:"punctuation"`
	Truth       *Truth      `json:"truth,omitempty"`
	Stamp       Stamp       `json:"stamp"`
}

// Validate checks the structural rules that intake enforces.
func (s Sentence) Validate() error {
	if s.Term == term.Nil {
		return &MalformedInputError{Reason: "missing term"}
	}
	if !s.Punctuation.Valid() {
		return &MalformedInputError{Reason: fmt.Sprintf("unknown punctuation %q", s.Punctuation)}
	}
	if s.Punctuation.HasTruth() {
		if s.Truth == nil {
			return &MalformedInputError{Reason: "judgment or goal without truth value"}
		}
		if err := s.Truth.Validate(); err != nil {
			return &MalformedInputError{Reason: "truth value", Err: err}
		}
	} else if s.Truth != nil {
		return &MalformedInputError{Reason: "question with truth value"}
	}
	if len(s.Stamp.Evidence) == 0 {
		return &MalformedInputError{Reason: "empty stamp"}
	}
	if len(s.Stamp.Evidence) > MaxEvidenceLength {
		return &MalformedInputError{Reason: fmt.Sprintf("stamp longer than %d", MaxEvidenceLength)}
	}
	return nil
}

// TruthValue returns the truth, or the zero Truth for questions.
func (s Sentence) TruthValue() Truth {
	if s.Truth == nil {
		return Truth{}
	}
	return *s.Truth
}

// Equivalent reports whether two sentences say the same thing on the same
// evidence. Such a sentence adds nothing and is dropped as a duplicate.
func (s Sentence) Equivalent(o Sentence) bool {
	if s.Term != o.Term || s.Punctuation != o.Punctuation {
		return false
	}
	if (s.Truth == nil) != (o.Truth == nil) {
		return false
	}
	if s.Truth != nil && !s.Truth.Equal(*o.Truth) {
		return false
	}
	return s.Stamp.SameEvidence(o.Stamp)
}

// Key identifies the sentence within one term table.
func (s Sentence) Key() string {
	if s.Truth == nil {
		return fmt.Sprintf("%d%s%s", s.Term, s.Punctuation, s.Stamp)
	}
	return fmt.Sprintf("%d%s%.4f;%.4f%s", s.Term, s.Punctuation, s.Truth.Frequency, s.Truth.Confidence, s.Stamp)
}
