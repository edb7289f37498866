package ir

import "github.com/roach88/nars/internal/term"

// Task is a sentence with a budget, the unit of work in memory.
//
// Parent and ParentBelief record the premises a derived task came from.
// They are kept only for the derivation guard and are not persisted.
type Task struct {
	Sentence     Sentence
	Budget       Budget
	Parent       *Task
	ParentBelief *Sentence
	BestAnswer   *Sentence // questions only
	Input        bool
}

// Key identifies the task by its sentence.
func (t *Task) Key() string {
	return t.Sentence.Key()
}

// Term is shorthand for t.Sentence.Term.
func (t *Task) Term() term.ID {
	return t.Sentence.Term
}

// Validate checks the sentence and budget.
func (t *Task) Validate() error {
	if err := t.Sentence.Validate(); err != nil {
		return err
	}
	if err := t.Budget.Validate(); err != nil {
		return &MalformedInputError{Reason: "budget", Err: err}
	}
	return nil
}

// HasAncestorTerm reports whether id is the term of this task or of any
// parent (task or belief) within depth generations.
func (t *Task) HasAncestorTerm(id term.ID, depth int) bool {
	for cur, d := t, 0; cur != nil && d <= depth; cur, d = cur.Parent, d+1 {
		if cur.Sentence.Term == id {
			return true
		}
		if cur.ParentBelief != nil && cur.ParentBelief.Term == id {
			return true
		}
	}
	return false
}
