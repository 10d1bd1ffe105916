package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sortlab/internal/algo"
	"github.com/roach88/sortlab/internal/engine"
)

// Scenario defines one conformance run.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Algorithm is a registered algorithm name.
	Algorithm string `yaml:"algorithm"`

	// Input is the sequence to sort. Omitted means nil.
	Input []int `yaml:"input,omitempty"`

	// CancelBeforeStart starts the run with an already cancelled context.
	CancelBeforeStart bool `yaml:"cancel_before_start,omitempty"`

	// RunID is the run identifier used for the recorded run.
	// Defaults to "scenario-<name>".
	RunID string `yaml:"run_id,omitempty"`

	// Expect holds the expected outcome. Unset fields are not checked.
	Expect Expect `yaml:"expect"`

	// Assertions are property checks over the finished run.
	Assertions []Assertion `yaml:"assertions"`
}

// Expect specifies the expected outcome of a scenario.
type Expect struct {
	// Status is completed, cancelled or failed.
	Status string `yaml:"status"`

	// Output is the expected final contents.
	Output []int `yaml:"output,omitempty"`

	// Error is a substring of the failure cause.
	Error string `yaml:"error,omitempty"`

	// FirstEvents is the expected prefix of the event stream, as
	// [slot, value] pairs.
	FirstEvents [][]int `yaml:"first_events,omitempty"`

	// EventCount is the expected total number of events.
	EventCount *int `yaml:"event_count,omitempty"`
}

// Assertion is a named property check.
type Assertion struct {
	Type string `yaml:"type"`
}

// Assertion type constants.
const (
	AssertSorted           = "sorted"
	AssertPermutation      = "permutation"
	AssertReplayMatches    = "replay_matches"
	AssertExchangeTriplets = "exchange_triplets"
	AssertMatchesPlain     = "matches_plain"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields, or is missing required fields.
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
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, ordered by file
// name. Duplicate scenario names are rejected.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("failed to read scenario directory: %w", err)
		}
	}

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("%s: scenario %q already defined in %s", filepath.Base(path), s.Name, prev)
		}
		seen[s.Name] = filepath.Base(path)
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Algorithm == "" {
		return fmt.Errorf("algorithm is required")
	}
	if _, ok := algo.ByName(s.Algorithm); !ok {
		return fmt.Errorf("unknown algorithm %q (known: %v)", s.Algorithm, algo.Names())
	}

	if s.Expect.Status == "" {
		return fmt.Errorf("expect.status is required")
	}
	if _, err := engine.ParseStatus(s.Expect.Status); err != nil {
		return fmt.Errorf("expect.status: %w", err)
	}

	for i, ev := range s.Expect.FirstEvents {
		if len(ev) != 2 {
			return fmt.Errorf("expect.first_events[%d]: want [slot, value], got %v", i, ev)
		}
	}

	if s.Expect.EventCount != nil && *s.Expect.EventCount < 0 {
		return fmt.Errorf("expect.event_count must be non-negative")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSorted, AssertPermutation, AssertReplayMatches, AssertExchangeTriplets, AssertMatchesPlain:
		return nil
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}
