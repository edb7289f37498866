package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/nars/internal/engine"
	"github.com/roach88/nars/internal/ir"
	"github.com/roach88/nars/internal/memory"
	"github.com/roach88/nars/internal/narsese"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s", event.Cycle, event.Kind, event.Sentence)
			if event.Question != "" {
				fmt.Fprintf(&buf, " for %s", event.Question)
			}
			if event.Input != "" {
				fmt.Fprintf(&buf, " %q", event.Input)
			}
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. m must be the memory the trace was produced by.
func EvaluateAssertions(trace []TraceEvent, assertions []Assertion, m *memory.Memory) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertBelief:
			err = assertBelief(trace, a, m)
		case AssertNoBelief:
			err = assertNoBelief(trace, a, m)
		case AssertConcept:
			err = assertConcept(trace, a, m)
		case AssertAnswer:
			err = assertAnswer(trace, a)
		case AssertEmitted:
			err = assertEmitted(trace, a)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func lookup(m *memory.Memory, text string) (*memory.Concept, error) {
	key, err := narsese.Canonical(text)
	if err != nil {
		return nil, err
	}
	id, ok := m.Terms().Lookup(key)
	if !ok {
		return nil, nil
	}
	return m.ConceptFor(id), nil
}

func assertBelief(trace []TraceEvent, a Assertion, m *memory.Memory) error {
	c, err := lookup(m, a.Term)
	if err != nil {
		return fmt.Errorf("belief %s: %w", a.Term, err)
	}
	if c == nil || c.BestBelief() == nil {
		return &AssertionError{
			Type:     AssertBelief,
			Expected: fmt.Sprintf("a belief about %s", a.Term),
			Actual:   "no belief",
			Trace:    trace,
		}
	}
	best := c.BestBelief()
	if !truthMatches(a, best.Truth) {
		return &AssertionError{
			Type:     AssertBelief,
			Expected: fmt.Sprintf("%s with %s", a.Term, expectedTruth(a)),
			Actual:   narsese.FormatStamped(m.Terms(), *best),
			Trace:    trace,
		}
	}
	return nil
}

func assertNoBelief(trace []TraceEvent, a Assertion, m *memory.Memory) error {
	c, err := lookup(m, a.Term)
	if err != nil {
		return fmt.Errorf("no_belief %s: %w", a.Term, err)
	}
	if c != nil && c.BestBelief() != nil {
		return &AssertionError{
			Type:     AssertNoBelief,
			Expected: fmt.Sprintf("no belief about %s", a.Term),
			Actual:   narsese.FormatStamped(m.Terms(), *c.BestBelief()),
			Trace:    trace,
		}
	}
	return nil
}

func assertConcept(trace []TraceEvent, a Assertion, m *memory.Memory) error {
	c, err := lookup(m, a.Term)
	if err != nil {
		return fmt.Errorf("concept %s: %w", a.Term, err)
	}
	if c == nil {
		return &AssertionError{
			Type:     AssertConcept,
			Expected: fmt.Sprintf("concept %s in memory", a.Term),
			Actual:   fmt.Sprintf("not among %d concepts", m.ConceptCount()),
			Trace:    trace,
		}
	}
	return nil
}

// assertAnswer checks the latest answer to the question.
func assertAnswer(trace []TraceEvent, a Assertion) error {
	var last *TraceEvent
	for i := range trace {
		if trace[i].Kind == engine.KindAnswer && trace[i].Question == a.Question {
			last = &trace[i]
		}
	}
	if last == nil {
		return &AssertionError{
			Type:     AssertAnswer,
			Expected: fmt.Sprintf("an answer to %s", a.Question),
			Actual:   "no answer",
			Trace:    trace,
		}
	}
	if !truthMatches(a, last.Truth) {
		return &AssertionError{
			Type:     AssertAnswer,
			Expected: fmt.Sprintf("answer to %s with %s", a.Question, expectedTruth(a)),
			Actual:   last.Sentence,
			Trace:    trace,
		}
	}
	return nil
}

func assertEmitted(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Kind == a.Kind && ev.Sentence == a.Sentence {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertEmitted,
		Expected: fmt.Sprintf("%s event %s", a.Kind, a.Sentence),
		Actual:   fmt.Sprintf("not among %d events", len(trace)),
		Trace:    trace,
	}
}

func truthMatches(a Assertion, t *ir.Truth) bool {
	if a.Frequency == nil && a.Confidence == nil {
		return true
	}
	if t == nil {
		return false
	}
	tol := a.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	if a.Frequency != nil && math.Abs(t.Frequency-*a.Frequency) > tol {
		return false
	}
	if a.Confidence != nil && math.Abs(t.Confidence-*a.Confidence) > tol {
		return false
	}
	return true
}

func expectedTruth(a Assertion) string {
	var parts []string
	if a.Frequency != nil {
		parts = append(parts, fmt.Sprintf("f=%.2f", *a.Frequency))
	}
	if a.Confidence != nil {
		parts = append(parts, fmt.Sprintf("c=%.2f", *a.Confidence))
	}
	return strings.Join(parts, " ")
}
