package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/nars/internal/memory"
)

// Scenario is one reasoning run with expectations about its outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cycles is the exact number of cycles to run.
	Cycles int64 `yaml:"cycles"`

	// Config overrides the default memory configuration.
	Config Overrides `yaml:"config,omitempty"`

	// Input lines, in batch-file form.
	Input []string `yaml:"input"`

	// Assertions validate the trace and final memory.
	Assertions []Assertion `yaml:"assertions"`
}

// Overrides replaces selected fields of memory.DefaultConfig. Unset fields
// keep their default.
type Overrides struct {
	Concepts          *int     `yaml:"concepts,omitempty"`
	TermLinks         *int     `yaml:"term_links,omitempty"`
	TaskLinks         *int     `yaml:"task_links,omitempty"`
	Levels            *int     `yaml:"levels,omitempty"`
	Beliefs           *int     `yaml:"beliefs,omitempty"`
	Tasks             *int     `yaml:"tasks,omitempty"`
	IntakeLimit       *int     `yaml:"intake_limit,omitempty"`
	IntakeCapacity    *int     `yaml:"intake_capacity,omitempty"`
	EmissionThreshold *float64 `yaml:"emission_threshold,omitempty"`
	Reliance          *float64 `yaml:"reliance,omitempty"`
	BudgetThreshold   *float64 `yaml:"budget_threshold,omitempty"`
	DerivationDepth   *int     `yaml:"derivation_depth,omitempty"`
	ForgetRate        *float64 `yaml:"forget_rate,omitempty"`
	Seed              *uint64  `yaml:"seed,omitempty"`
}

// Apply returns cfg with the overrides set.
func (o Overrides) Apply(cfg memory.Config) memory.Config {
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	setInt(&cfg.ConceptCapacity, o.Concepts)
	setInt(&cfg.TermLinkCapacity, o.TermLinks)
	setInt(&cfg.TaskLinkCapacity, o.TaskLinks)
	setInt(&cfg.Levels, o.Levels)
	setInt(&cfg.BeliefCapacity, o.Beliefs)
	setInt(&cfg.TaskCapacity, o.Tasks)
	setInt(&cfg.IntakeLimit, o.IntakeLimit)
	setInt(&cfg.IntakeCapacity, o.IntakeCapacity)
	setFloat(&cfg.EmissionThreshold, o.EmissionThreshold)
	setFloat(&cfg.Inference.Reliance, o.Reliance)
	setFloat(&cfg.Inference.BudgetThreshold, o.BudgetThreshold)
	setInt(&cfg.Inference.DerivationDepth, o.DerivationDepth)
	setFloat(&cfg.ForgetRate, o.ForgetRate)
	if o.Seed != nil {
		cfg.Seed = *o.Seed
	}
	return cfg
}

// Assertion validates the trace or the final memory.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Term is the statement checked by belief, no_belief and concept.
	Term string `yaml:"term,omitempty"`

	// Question is the rendered question checked by answer.
	Question string `yaml:"question,omitempty"`

	// Kind and Sentence select the event checked by emitted.
	Kind     string `yaml:"kind,omitempty"`
	Sentence string `yaml:"sentence,omitempty"`

	// Frequency and Confidence are optional expected truth values.
	Frequency  *float64 `yaml:"frequency,omitempty"`
	Confidence *float64 `yaml:"confidence,omitempty"`

	// Tolerance bounds the truth comparison. Zero means DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`
}

// Assertion type constants.
const (
	AssertBelief   = "belief"
	AssertNoBelief = "no_belief"
	AssertConcept  = "concept"
	AssertAnswer   = "answer"
	AssertEmitted  = "emitted"
)

// DefaultTolerance is the truth tolerance used when an assertion sets none.
const DefaultTolerance = 0.01

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Cycles <= 0 {
		return fmt.Errorf("cycles must be positive, got %d", s.Cycles)
	}
	if len(s.Input) == 0 {
		return fmt.Errorf("input list is required and must be non-empty")
	}
	if err := s.Config.Apply(memory.DefaultConfig()).Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertBelief, AssertNoBelief, AssertConcept:
		if a.Term == "" {
			return fmt.Errorf("%s requires 'term' field", a.Type)
		}
	case AssertAnswer:
		if a.Question == "" {
			return fmt.Errorf("answer requires 'question' field")
		}
	case AssertEmitted:
		if a.Kind == "" || a.Sentence == "" {
			return fmt.Errorf("emitted requires 'kind' and 'sentence' fields")
		}
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}
	return nil
}
