package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// RuleSetSpec is a compiled rule-set definition.
type RuleSetSpec struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rules       []string `json:"rules"`
	// MaxSteps overrides the engine's step quota; zero keeps the default.
	MaxSteps int       `json:"max_steps,omitempty"`
	Pos      token.Pos `json:"-"`
}

// CompileRuleSet parses a CUE value into a RuleSetSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the rule-set struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`ruleset: cleanup: { rules: ["not_not"] }`)
//	spec, err := CompileRuleSet(v.LookupPath(cue.ParsePath("ruleset.cleanup")))
func CompileRuleSet(v cue.Value) (*RuleSetSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &RuleSetSpec{Pos: v.Pos()}

	// Name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		desc, err := d.String()
		if err != nil {
			return nil, &CompileError{Field: "description", Message: "description must be a string", Pos: d.Pos()}
		}
		spec.Description = desc
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "rules",
			Message: "rules is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := rulesVal.List()
	if err != nil {
		return nil, &CompileError{Field: "rules", Message: "rules must be a list of rule names", Pos: rulesVal.Pos()}
	}
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "rules",
				Message: fmt.Sprintf("rules[%s] must be a string", iter.Selector()),
				Pos:     iter.Value().Pos(),
			}
		}
		spec.Rules = append(spec.Rules, name)
	}

	if m := v.LookupPath(cue.ParsePath("max_steps")); m.Exists() {
		if m.IncompleteKind() != cue.IntKind {
			return nil, &CompileError{Field: "max_steps", Message: "max_steps must be an integer", Pos: m.Pos()}
		}
		n, err := m.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		spec.MaxSteps = int(n)
	}

	return spec, nil
}

// CompileRuleSets compiles every rule set under the top-level "ruleset"
// field of v, in source order. A missing field yields no rule sets.
func CompileRuleSets(v cue.Value) ([]*RuleSetSpec, error) {
	setsVal := v.LookupPath(cue.ParsePath("ruleset"))
	if !setsVal.Exists() {
		return nil, nil
	}
	iter, err := setsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []*RuleSetSpec
	for iter.Next() {
		spec, err := CompileRuleSet(iter.Value())
		if err != nil {
			return out, err
		}
		out = append(out, spec)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
