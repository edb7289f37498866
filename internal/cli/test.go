package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/nars/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update   bool   // regenerate golden files
	Filter   string // scenario filter (glob pattern)
	Parallel int    // scenarios run at once; 0 means no bound
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Cycles int64    `json:"cycles"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run reasoning scenarios",
		Long: `Run YAML reasoning scenarios, each on a fresh deterministic reasoner.

A scenario feeds narsese input for a fixed number of cycles and then checks
assertions on the emitted events and the final memory. When
<scenarios-dir>/golden/<file>.golden exists the event trace must match it.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  nars test ./scenarios
  nars test ./scenarios --filter "revision*"
  nars test ./scenarios --update
  nars test ./scenarios --format json --parallel 4`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 0, "scenarios run at once (0 means no bound)")

	return cmd
}

// scenarioFile is a scenario with the file it came from.
type scenarioFile struct {
	path     string
	scenario *harness.Scenario
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir))
	}

	files, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if len(files) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}

	var loaded []scenarioFile
	for _, path := range files {
		s, err := harness.LoadScenario(path)
		if err != nil {
			result.add(ScenarioResult{
				Name:   filepath.Base(path),
				Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
			})
			continue
		}
		loaded = append(loaded, scenarioFile{path: path, scenario: s})
	}

	scenarios := make([]*harness.Scenario, len(loaded))
	for i, f := range loaded {
		scenarios[i] = f.scenario
	}
	h := harness.New(
		harness.WithLogger(opts.logger()),
		harness.WithParallelism(opts.Parallel),
	)
	ctx, stop := signalContext(cmd)
	defer stop()
	runs, err := h.RunAll(ctx, scenarios)
	if err != nil {
		return WrapExitError(ExitFailure, "execution failed", err)
	}

	for i, run := range runs {
		result.add(checkScenario(opts, loaded[i].path, run))
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// findScenarioFiles finds all YAML scenario files in a directory, skipping
// the golden directory.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != dir && info.Name() == "golden" {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// checkScenario folds golden comparison into a scenario run.
func checkScenario(opts *TestOptions, path string, run *harness.Result) ScenarioResult {
	res := ScenarioResult{
		Name:   run.Name,
		Pass:   run.Pass,
		Cycles: run.Cycles,
		Errors: run.Errors,
	}
	fail := func(msg string) ScenarioResult {
		res.Pass = false
		res.Errors = append(res.Errors, msg)
		return res
	}

	goldenPath := goldenFilePath(path)
	if opts.Update {
		if err := updateGoldenFile(run, goldenPath); err != nil {
			return fail(fmt.Sprintf("failed to update golden file: %v", err))
		}
		return res
	}

	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		return res
	}
	match, err := compareWithGolden(run, goldenPath)
	if err != nil {
		return fail(fmt.Sprintf("golden comparison failed: %v", err))
	}
	if !match {
		return fail("trace does not match golden file (run with --update to regenerate)")
	}
	return res
}

// goldenFilePath returns the path to the golden file for a scenario.
func goldenFilePath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// updateGoldenFile writes the current trace as the golden file.
func updateGoldenFile(result *harness.Result, goldenPath string) error {
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	data, err := harness.MarshalTrace(result)
	if err != nil {
		return fmt.Errorf("failed to marshal trace: %w", err)
	}
	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// compareWithGolden compares the result trace against the golden file.
func compareWithGolden(result *harness.Result, goldenPath string) (bool, error) {
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	current, err := harness.MarshalTrace(result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal current trace: %w", err)
	}
	return bytes.Equal(golden, current), nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_TEST_FAILED",
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	f := &OutputFormatter{Format: "json", Writer: cmd.OutOrStdout()}
	if err := f.encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	for _, s := range result.Scenarios {
		if s.Pass {
			fmt.Fprintf(w, "✓ %s\n", s.Name)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", s.Name)
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", strings.ReplaceAll(e, "\n", "\n  "))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
