package harness

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sieve/internal/match"
	"github.com/roach88/sieve/internal/tri"
)

// Scenario kinds.
const (
	KindSimplify = "simplify"
	KindMatch    = "match"
	KindCompute  = "compute"
)

// Scenario is one harness test case: a predicate, what to do with it and
// what to expect.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Kind is simplify, match or compute.
	Kind string `yaml:"kind"`

	// Predicate is the query predicate.
	Predicate *ExprSpec `yaml:"predicate"`

	// Candidate is the predicate the query is matched against (match only).
	Candidate *ExprSpec `yaml:"candidate,omitempty"`

	// Aliases maps query correlations to candidate correlations.
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// ConstantAliases lists correlations whose fields are constant.
	ConstantAliases []string `yaml:"constant_aliases,omitempty"`

	// Rules lists simplification rules in order. It overrides RuleSet.
	Rules []string `yaml:"rules,omitempty"`

	// RuleSet names a compiled rule set; "default" (or empty) is the
	// built-in default order.
	RuleSet string `yaml:"ruleset,omitempty"`

	// MaxSteps overrides the step quota.
	MaxSteps int `yaml:"max_steps,omitempty"`

	// Rows binds correlation fields for evaluation, keyed by alias.
	Rows map[string]map[string]any `yaml:"rows,omitempty"`

	// Params binds runtime parameters for evaluation.
	Params map[string]any `yaml:"params,omitempty"`

	// Available lists the correlations a compute scenario can supply.
	Available []string `yaml:"available,omitempty"`

	Expect Expect `yaml:"expect"`
}

// Expect holds the expected results. Empty fields are not checked.
type Expect struct {
	// Simplified is the rendered result of simplify.
	Simplified string `yaml:"simplified,omitempty"`

	// Eval is the truth value of the simplified predicate over Rows and
	// Params: true, false or unknown.
	Eval string `yaml:"eval,omitempty"`

	// Outcome is no_match, exact or compensated.
	Outcome string `yaml:"outcome,omitempty"`

	// Compensation is the rendered residual filter of a compensated match.
	Compensation string `yaml:"compensation,omitempty"`

	// Fields lists the field references computed by compute.
	Fields []string `yaml:"fields,omitempty"`

	// Covered is whether every referenced correlation is available.
	Covered *bool `yaml:"covered,omitempty"`

	// Error is the runtime error code the run must fail with.
	Error string `yaml:"error,omitempty"`
}

// evaluates reports whether the scenario binds an evaluation context.
func (s *Scenario) evaluates() bool {
	return s.Rows != nil || s.Params != nil
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario file")
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, errors.Wrapf(err, "invalid scenario %s", path)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, ordered by file
// name. Scenario names must be unique.
func LoadScenarios(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, errors.Wrap(err, "list scenarios")
		}
		paths = append(paths, m...)
	}
	sort.Strings(paths)

	seen := make(map[string]string, len(paths))
	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		sc, err := LoadScenario(p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[sc.Name]; dup {
			return nil, errors.Newf("scenario %q defined in both %s and %s", sc.Name, prev, p)
		}
		seen[sc.Name] = p
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Description == "" {
		return errors.New("description is required")
	}
	if s.Predicate.IsZero() {
		return errors.New("predicate is required")
	}
	if s.MaxSteps < 0 {
		return errors.Newf("max_steps must be non-negative, got %d", s.MaxSteps)
	}

	switch s.Kind {
	case KindSimplify:
	case KindMatch:
		if s.Candidate.IsZero() {
			return errors.New("match scenarios require a candidate")
		}
	case KindCompute:
	case "":
		return errors.New("kind is required")
	default:
		return errors.Newf("unknown kind %q", s.Kind)
	}
	if s.Kind != KindMatch && !s.Candidate.IsZero() {
		return errors.Newf("candidate is only valid for match scenarios")
	}

	if s.Expect.Eval != "" {
		if _, err := tri.Parse(s.Expect.Eval); err != nil {
			return errors.Wrap(err, "expect.eval")
		}
	}
	if s.Expect.Outcome != "" {
		if _, ok := match.ParseOutcome(s.Expect.Outcome); !ok {
			return errors.Newf("expect.outcome: unknown outcome %q", s.Expect.Outcome)
		}
	}
	return nil
}
