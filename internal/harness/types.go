package harness

import (
	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/ir"
)

// TraceEvent is one emitted event as recorded for a scenario.
type TraceEvent struct {
	Cycle    int64     `json:"cycle"`
	Kind     string    `json:"kind"`
	Sentence string    `json:"sentence,omitempty"`
	Truth    *ir.Truth `json:"-"`
	Evidence []int64   `json:"evidence,omitempty"`
	Question string    `json:"question,omitempty"`
	Input    string    `json:"input,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func traceEvent(ev engine.Event) TraceEvent {
	return TraceEvent{
		Cycle:    ev.Cycle,
		Kind:     ev.Kind,
		Sentence: ev.Sentence,
		Truth:    ev.Truth,
		Evidence: ev.Evidence,
		Question: ev.Question,
		Input:    ev.Input,
		Error:    ev.Error,
	}
}

// Result is the outcome of a scenario run.
type Result struct {
	// Name is the scenario name.
	Name string `json:"name"`

	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Cycles is the number of cycles run.
	Cycles int64 `json:"cycles"`

	// Trace contains every emitted event in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failed assertion messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Name:   name,
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed assertion and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
