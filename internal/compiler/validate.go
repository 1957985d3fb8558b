package compiler

import (
	"fmt"
	"regexp"
)

// Validation error codes (E100-E199)
const (
	ErrRuleSetName      = "E101" // name must be snake_case
	ErrRuleSetNoRules   = "E102" // at least one rule required
	ErrUnknownRule      = "E103" // rule name not registered
	ErrDuplicateRule    = "E104" // rule listed twice
	ErrInvalidMaxSteps  = "E105" // max_steps must be positive
	ErrDuplicateRuleSet = "E106" // two rule sets share a name
)

var snakeCase = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled rule set against the registry. known reports
// whether a rule name is registered.
// Returns all errors found (does not fail-fast).
func Validate(spec *RuleSetSpec, known func(string) bool) []ValidationError {
	var errs []ValidationError
	line := spec.Pos.Line()

	if !snakeCase.MatchString(spec.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("rule set name %q must be snake_case", spec.Name),
			Code:    ErrRuleSetName,
			Line:    line,
		})
	}

	if len(spec.Rules) == 0 {
		errs = append(errs, ValidationError{
			Field:   "rules",
			Message: "at least one rule is required",
			Code:    ErrRuleSetNoRules,
			Line:    line,
		})
	}

	seen := make(map[string]bool, len(spec.Rules))
	for i, name := range spec.Rules {
		field := fmt.Sprintf("rules[%d]", i)
		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("rule %q is listed more than once", name),
				Code:    ErrDuplicateRule,
				Line:    line,
			})
		}
		seen[name] = true
		if !known(name) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unknown rule %q", name),
				Code:    ErrUnknownRule,
				Line:    line,
			})
		}
	}

	if spec.MaxSteps < 0 {
		errs = append(errs, ValidationError{
			Field:   "max_steps",
			Message: fmt.Sprintf("max_steps must be positive, got %d", spec.MaxSteps),
			Code:    ErrInvalidMaxSteps,
			Line:    line,
		})
	}

	return errs
}

// ValidateAll validates every rule set and rejects duplicate names.
func ValidateAll(specs []*RuleSetSpec, known func(string) bool) []ValidationError {
	var errs []ValidationError
	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if names[spec.Name] {
			errs = append(errs, ValidationError{
				Field:   "ruleset." + spec.Name,
				Message: fmt.Sprintf("rule set %q is defined more than once", spec.Name),
				Code:    ErrDuplicateRuleSet,
				Line:    spec.Pos.Line(),
			})
		}
		names[spec.Name] = true
		errs = append(errs, Validate(spec, known)...)
	}
	return errs
}
