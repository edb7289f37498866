// Package config loads reasoner settings.
//
// Settings come from three layers, later ones winning: the defaults in the
// embedded CUE schema, an optional CUE (or JSON) file, and NARS_*
// environment variables, which may be put in a .env file. The merged result
// is checked against the schema, so every constraint (reliance strictly
// between 0 and 1, positive capacities, and so on) holds whatever layer a
// value came from.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/joho/godotenv"

	"github.com/roach88/nars/internal/inference"
	"github.com/roach88/nars/internal/memory"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Bag       BagConfig       `json:"bag"`
	Memory    MemoryConfig    `json:"memory"`
	Inference InferenceConfig `json:"inference"`
	Forget    ForgetConfig    `json:"forget"`
	Seed      uint64          `json:"seed"`
	Run       RunConfig       `json:"run"`
	Store     StoreConfig     `json:"store"`
}

type BagConfig struct {
	Concepts  int `json:"concepts"`
	TermLinks int `json:"termLinks"`
	TaskLinks int `json:"taskLinks"`
	Levels    int `json:"levels"`
}

type MemoryConfig struct {
	Beliefs        int `json:"beliefs"`
	Tasks          int `json:"tasks"`
	IntakeLimit    int `json:"intakeLimit"`
	IntakeCapacity int `json:"intakeCapacity"`
}

type InferenceConfig struct {
	EmissionThreshold float64 `json:"emissionThreshold"`
	Reliance          float64 `json:"reliance"`
	BudgetThreshold   float64 `json:"budgetThreshold"`
	DerivationDepth   int     `json:"derivationDepth"`
}

type ForgetConfig struct {
	Rate float64 `json:"rate"`
}

type RunConfig struct {
	MaxCycles       int64   `json:"maxCycles"`
	SettleCycles    int64   `json:"settleCycles"`
	CyclesPerSecond float64 `json:"cyclesPerSecond"`
}

type StoreConfig struct {
	Path string `json:"path"`
}

// MemoryConfig converts the settings into a memory configuration.
func (c *Config) MemoryConfig() memory.Config {
	return memory.Config{
		ConceptCapacity:   c.Bag.Concepts,
		TermLinkCapacity:  c.Bag.TermLinks,
		TaskLinkCapacity:  c.Bag.TaskLinks,
		Levels:            c.Bag.Levels,
		BeliefCapacity:    c.Memory.Beliefs,
		TaskCapacity:      c.Memory.Tasks,
		IntakeLimit:       c.Memory.IntakeLimit,
		IntakeCapacity:    c.Memory.IntakeCapacity,
		EmissionThreshold: c.Inference.EmissionThreshold,
		ForgetRate:        c.Forget.Rate,
		Seed:              c.Seed,
		Inference: inference.Config{
			Reliance:        c.Inference.Reliance,
			DerivationDepth: c.Inference.DerivationDepth,
			BudgetThreshold: c.Inference.BudgetThreshold,
		},
	}
}

// EnvVars maps each environment variable to the setting it overrides.
var EnvVars = map[string]string{
	"NARS_CONCEPTS":           "bag.concepts",
	"NARS_TERM_LINKS":         "bag.termLinks",
	"NARS_TASK_LINKS":         "bag.taskLinks",
	"NARS_LEVELS":             "bag.levels",
	"NARS_BELIEFS":            "memory.beliefs",
	"NARS_TASKS":              "memory.tasks",
	"NARS_INTAKE_LIMIT":       "memory.intakeLimit",
	"NARS_INTAKE_CAPACITY":    "memory.intakeCapacity",
	"NARS_EMISSION_THRESHOLD": "inference.emissionThreshold",
	"NARS_RELIANCE":           "inference.reliance",
	"NARS_BUDGET_THRESHOLD":   "inference.budgetThreshold",
	"NARS_DERIVATION_DEPTH":   "inference.derivationDepth",
	"NARS_FORGET_RATE":        "forget.rate",
	"NARS_SEED":               "seed",
	"NARS_MAX_CYCLES":         "run.maxCycles",
	"NARS_SETTLE_CYCLES":      "run.settleCycles",
	"NARS_CYCLES_PER_SECOND":  "run.cyclesPerSecond",
	"NARS_STORE_PATH":         "store.path",
}

// Error is a configuration problem, with the file position when known.
type Error struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Default returns the schema defaults.
func Default() (*Config, error) {
	return LoadWithEnv("", func(string) (string, bool) { return "", false })
}

// Load reads path (empty for none) and applies the process environment.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadDotEnv adds the variables of the given .env files (default ".env")
// to the process environment. Missing files are skipped; variables that
// are already set are kept.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// LoadWithEnv is Load with an explicit environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}

	v := schema
	if path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		file := ctx.CompileBytes(src, cue.Filename(path))
		if err := file.Err(); err != nil {
			return nil, formatCUEError(err)
		}
		v = v.Unify(file)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	overrides, err := envOverrides(lookup)
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return cfg, nil
	}

	// Re-validate the merged settings so overrides meet the same
	// constraints as the file.
	merged, err := cfg.apply(overrides)
	if err != nil {
		return nil, err
	}
	layered := ctx.CompileBytes(merged, cue.Filename("environment"))
	if err := layered.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return decode(schema.Unify(layered))
}

func decode(v cue.Value) (*Config, error) {
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}
	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return nil, formatCUEError(err)
	}
	return &cfg, nil
}

func envOverrides(lookup func(string) (string, bool)) (map[string]any, error) {
	out := make(map[string]any)
	for name, path := range EnvVars {
		raw, ok := lookup(name)
		if !ok || raw == "" {
			continue
		}
		if path == "store.path" {
			out[path] = raw
			continue
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &Error{Field: name, Message: fmt.Sprintf("not a number: %q", raw)}
		}
		out[path] = n
	}
	return out, nil
}

// apply returns the JSON form of c with the overrides written in.
func (c *Config) apply(overrides map[string]any) ([]byte, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, err
	}
	for path, val := range overrides {
		parts := strings.Split(path, ".")
		node := tree
		for _, p := range parts[:len(parts)-1] {
			next, ok := node[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				node[p] = next
			}
			node = next
		}
		node[parts[len(parts)-1]] = val
	}
	return json.Marshal(tree)
}

// JSON renders the configuration for display.
func (c *Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &Error{Field: "config", Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Field: "config", Message: first.Error()}
}
