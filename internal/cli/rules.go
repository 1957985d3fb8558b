package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/rules"
)

// RuleSetInfo describes one compiled rule set.
type RuleSetInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Rules       []string `json:"rules"`
	MaxSteps    int      `json:"max_steps,omitempty"`
}

// RulesResult holds the compiled rule sets and any validation errors.
type RulesResult struct {
	Valid      bool                       `json:"valid"`
	RuleSets   []RuleSetInfo              `json:"rulesets"`
	Registered []string                   `json:"registered"`
	Errors     []compiler.ValidationError `json:"errors,omitempty"`
}

// RenderText lists rule sets; registered rule names only in verbose mode.
func (r RulesResult) RenderText(w io.Writer, verbose bool) {
	for _, rs := range r.RuleSets {
		line := fmt.Sprintf("%s: %s", rs.Name, strings.Join(rs.Rules, ", "))
		if rs.MaxSteps > 0 {
			line += fmt.Sprintf(" (max_steps %d)", rs.MaxSteps)
		}
		fmt.Fprintln(w, line)
	}
	if verbose {
		fmt.Fprintf(w, "registered: %s\n", strings.Join(r.Registered, ", "))
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e.Error())
	}
	if r.Valid {
		fmt.Fprintf(w, "✓ %d rule set(s) valid\n", len(r.RuleSets))
	}
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules <rules-dir>",
		Short: "Compile and validate CUE rule sets",
		Long: `Compile the rule sets declared under "ruleset" in a CUE package and
check every listed rule against the registry.

Exit codes:
  0 - All rule sets valid
  1 - Validation errors
  2 - Command error (directory not found, CUE load failure)

Examples:
  sieve rules ./rulesets
  sieve rules ./rulesets --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runRules(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	loadResult, loadErrors := LoadRuleSets(dir)
	if loadResult == nil {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		} else {
			_ = formatter.Error(ErrCodeGeneric, loadErrors[0].Error(), nil)
		}
		return WrapExitError(ExitCommandError, "failed to load rule sets", loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	result := RulesResult{
		RuleSets:   make([]RuleSetInfo, 0, len(loadResult.RuleSets)),
		Registered: rules.DefaultOrder(),
	}
	for _, spec := range loadResult.RuleSets {
		result.RuleSets = append(result.RuleSets, RuleSetInfo{
			Name:        spec.Name,
			Description: spec.Description,
			Rules:       spec.Rules,
			MaxSteps:    spec.MaxSteps,
		})
	}

	for _, err := range loadErrors {
		ve := compiler.ValidationError{Field: "load", Code: ErrCodeGeneric, Message: err.Error()}
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			ve.Code = loadErr.Code
			ve.Message = loadErr.Message
			if loadErr.Pos.IsValid() {
				ve.Line = loadErr.Pos.Line()
			}
		}
		result.Errors = append(result.Errors, ve)
	}
	result.Errors = append(result.Errors, compiler.ValidateAll(loadResult.RuleSets, rules.Known)...)

	if len(result.Errors) > 0 {
		msg := fmt.Sprintf("%d validation error(s)", len(result.Errors))
		if err := formatter.Failure(result.Errors[0].Code, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	result.Valid = true
	return formatter.Success(result)
}
