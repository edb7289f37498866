package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/nars/internal/memory"
)

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/deduction.yaml")
	require.NoError(t, err)

	assert.Equal(t, "deduction", s.Name)
	assert.Equal(t, int64(1000), s.Cycles)
	require.NotNil(t, s.Config.EmissionThreshold)
	assert.Equal(t, 1.0, *s.Config.EmissionThreshold)
	assert.Len(t, s.Input, 5)
	assert.Equal(t, "10", s.Input[3])
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertBelief, s.Assertions[0].Type)
	assert.Equal(t, "<raven --> animal>", s.Assertions[0].Term)
	require.NotNil(t, s.Assertions[0].Confidence)
	assert.Equal(t, 0.81, *s.Assertions[0].Confidence)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_UnknownField(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "misspelled key"
cycles: 1
input: ["<a --> b>."]
assertion:
  - type: concept
    term: a
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: d\ncycles: 1\ninput: [\"<a --> b>.\"]\n",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: n\ncycles: 1\ninput: [\"<a --> b>.\"]\n",
			want: "description is required",
		},
		{
			name: "zero cycles",
			yaml: "name: n\ndescription: d\ninput: [\"<a --> b>.\"]\n",
			want: "cycles must be positive",
		},
		{
			name: "no input",
			yaml: "name: n\ndescription: d\ncycles: 1\n",
			want: "input list is required",
		},
		{
			name: "bad config",
			yaml: "name: n\ndescription: d\ncycles: 1\nconfig:\n  concepts: 0\ninput: [\"<a --> b>.\"]\n",
			want: "config:",
		},
		{
			name: "assertion without type",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - term: a\n",
			want: "type is required",
		},
		{
			name: "unknown assertion",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - type: trace_order\n",
			want: `unknown assertion type "trace_order"`,
		},
		{
			name: "belief without term",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - type: belief\n",
			want: "belief requires 'term' field",
		},
		{
			name: "answer without question",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - type: answer\n",
			want: "answer requires 'question' field",
		},
		{
			name: "emitted without sentence",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - type: emitted\n    kind: answer\n",
			want: "emitted requires 'kind' and 'sentence' fields",
		},
		{
			name: "negative tolerance",
			yaml: "name: n\ndescription: d\ncycles: 1\ninput: [\"<a --> b>.\"]\nassertions:\n  - type: concept\n    term: a\n    tolerance: -1\n",
			want: "tolerance must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOverridesApply(t *testing.T) {
	concepts, depth := 50, 3
	threshold, rate := 0.5, 0.25
	seed := uint64(42)
	o := Overrides{
		Concepts:          &concepts,
		EmissionThreshold: &threshold,
		DerivationDepth:   &depth,
		ForgetRate:        &rate,
		Seed:              &seed,
	}

	got := o.Apply(memory.DefaultConfig())

	want := memory.DefaultConfig()
	want.ConceptCapacity = 50
	want.EmissionThreshold = 0.5
	want.Inference.DerivationDepth = 3
	want.ForgetRate = 0.25
	want.Seed = 42
	assert.Equal(t, want, got)
}

func TestOverridesApply_Empty(t *testing.T) {
	assert.Equal(t, memory.DefaultConfig(), Overrides{}.Apply(memory.DefaultConfig()))
}

func TestLoadDir(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"answer_direct", "deduction", "revision"}, names)
}

func TestLoadDir_ReportsBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: x\n"), 0o644))

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
