package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/engine"
)

func mustParse(t *testing.T, yaml string) *Scenario {
	t.Helper()
	s, err := ParseScenario([]byte(yaml))
	require.NoError(t, err)
	return s
}

func TestRun_AnswerDirectGolden(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/answer_direct.yaml")
	require.NoError(t, err)

	result, err := RunWithGolden(t, s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, int64(1), result.Cycles)
}

func TestRun_Revision(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/revision.yaml")
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	var revised *TraceEvent
	for i, ev := range result.Trace {
		if ev.Kind == engine.KindDerived && ev.Sentence == "<a --> b>. %0.50;0.95%" {
			revised = &result.Trace[i]
		}
	}
	require.NotNil(t, revised, "trace: %v", result.Trace)
	assert.ElementsMatch(t, []int64{1, 2}, revised.Evidence)
	assert.Equal(t, int64(1), revised.Cycle)
}

func TestRun_Deduction(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/deduction.yaml")
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, int64(1000), result.Cycles)
}

func TestRun_FailedAssertion(t *testing.T) {
	s := mustParse(t, `
name: wrong_truth
description: "expects a confidence the input does not carry"
cycles: 1
input: ["<a --> b>. %1.0;0.9%"]
assertions:
  - type: belief
    term: "<a --> b>"
    confidence: 0.5
  - type: belief
    term: "<b --> a>"
  - type: emitted
    kind: derived
    sentence: "<a --> b>. %1.00;0.90%"
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, result.Errors[0], "Assertion failed: belief")
	assert.Contains(t, result.Errors[0], "c=0.50")
	assert.Contains(t, result.Errors[0], "<a --> b>. %1.00;0.90% {1}")
	assert.Contains(t, result.Errors[1], "no belief")
	assert.Contains(t, result.Errors[2], "Assertion failed: emitted")
}

func TestRun_RejectedInput(t *testing.T) {
	s := mustParse(t, `
name: rejected
description: "malformed lines are reported and the rest is processed"
cycles: 2
input:
  - "<a --> b"
  - "<a --> b>."
assertions:
  - type: belief
    term: "<a --> b>"
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	require.NotEmpty(t, result.Trace)
	assert.Equal(t, engine.KindRejected, result.Trace[0].Kind)
	assert.Equal(t, "<a --> b", result.Trace[0].Input)
	assert.NotEmpty(t, result.Trace[0].Error)
	assert.Equal(t, int64(1), result.Trace[0].Cycle)
}

func TestRun_WaitLines(t *testing.T) {
	s := mustParse(t, `
name: delayed_question
description: "a numeric line holds back the question"
cycles: 4
config:
  emission_threshold: 1
input:
  - "<a --> b>."
  - "3"
  - "<a --> b>?"
assertions:
  - type: answer
    question: "<a --> b>?"
`)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)

	for _, ev := range result.Trace {
		if ev.Kind == engine.KindAnswer {
			assert.Equal(t, int64(4), ev.Cycle)
		}
	}
}

func TestRun_Canceled(t *testing.T) {
	s := mustParse(t, `
name: canceled
description: "a canceled context stops the run"
cycles: 5
input: ["<a --> b>."]
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunAll(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	h := New(WithParallelism(2))
	results, err := h.RunAll(context.Background(), scenarios)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.Equal(t, scenarios[i].Name, r.Name)
		assert.True(t, r.Pass, "%s: %v", r.Name, r.Errors)
	}
}

func TestRunAll_MatchesSequentialRuns(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/revision.yaml")
	require.NoError(t, err)

	results, err := New().RunAll(context.Background(), []*Scenario{s, s, s})
	require.NoError(t, err)

	single, err := Run(context.Background(), s)
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, single.Trace, r.Trace)
	}
}

func TestRunAll_Error(t *testing.T) {
	s := mustParse(t, `
name: canceled
description: "a canceled context fails the batch"
cycles: 1
input: ["<a --> b>."]
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().RunAll(ctx, []*Scenario{s})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario canceled")
}

func TestAssertionError_Error(t *testing.T) {
	err := &AssertionError{
		Type:     AssertAnswer,
		Expected: "an answer to <a --> b>?",
		Actual:   "no answer",
		Trace: []TraceEvent{
			{Cycle: 1, Kind: engine.KindDerived, Sentence: "<b --> a>. %1.00;0.45%"},
			{Cycle: 2, Kind: engine.KindRejected, Input: "oops"},
		},
	}

	msg := err.Error()
	assert.True(t, strings.HasPrefix(msg, "Assertion failed: answer\n"))
	assert.Contains(t, msg, "  Expected: an answer to <a --> b>?\n")
	assert.Contains(t, msg, "  Actual: no answer\n")
	assert.Contains(t, msg, "  [1] derived <b --> a>. %1.00;0.45%\n")
	assert.Contains(t, msg, `[2] rejected  "oops"`)
}
