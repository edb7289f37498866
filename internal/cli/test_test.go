package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: answer_direct
description: "A question about a stored belief is answered"
cycles: 1
config:
  emission_threshold: 1
input:
  - "<a --> b>."
  - "<a --> b>?"
assertions:
  - type: answer
    question: "<a --> b>?"
    frequency: 1.0
    confidence: 0.9
`

const failingScenario = `name: wrong_truth
description: "Expects a truth value the reasoner never reaches"
cycles: 1
input:
  - "<a --> b>. %1.0;0.9%"
assertions:
  - type: belief
    term: "<a --> b>"
    frequency: 0.2
`

func scenarioDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, dir, name, content)
	}
	return dir
}

func TestTest_Passing(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"answer_direct.yaml": passingScenario})

	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ answer_direct")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTest_Failing(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"answer_direct.yaml": passingScenario,
		"wrong_truth.yaml":   failingScenario,
	})

	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ wrong_truth")
	assert.Contains(t, out, "Assertion failed: belief")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTest_JSONFailure(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"wrong_truth.yaml": failingScenario})

	out, _, err := execute(t, NewTestCommand(testOptions("json", nil)), "", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.Equal(t, int64(1), resp.Data.Scenarios[0].Cycles)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
}

func TestTest_Filter(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"answer_direct.yaml": passingScenario,
		"wrong_truth.yaml":   failingScenario,
	})

	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir, "--filter", "answer*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "wrong_truth")
}

func TestTest_NoScenarios(t *testing.T) {
	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_LoadErrorCountsAsFailure(t *testing.T) {
	dir := scenarioDir(t, map[string]string{
		"answer_direct.yaml": passingScenario,
		"broken.yaml":        "name: broken\nbogus: true\n",
	})

	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir, "--parallel", "1")
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestTest_MissingDir(t *testing.T) {
	_, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_GoldenUpdateAndCompare(t *testing.T) {
	dir := scenarioDir(t, map[string]string{"answer_direct.yaml": passingScenario})
	golden := filepath.Join(dir, "golden", "answer_direct.golden")

	_, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir, "--update")
	require.NoError(t, err)
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario_name": "answer_direct"`)
	assert.Contains(t, string(data), `"sentence": "<a --> b>. %1.00;0.90%"`)

	out, _, err := execute(t, NewTestCommand(testOptions("text", nil)), "", dir)
	require.NoError(t, err, out)

	require.NoError(t, os.WriteFile(golden, []byte("{}\n"), 0644))
	out, _, err = execute(t, NewTestCommand(testOptions("text", nil)), "", dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}
