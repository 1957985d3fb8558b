package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/harness"
	"github.com/roach88/sieve/internal/store"
)

// ScenarioOptions holds the flags shared by commands that run scenarios.
type ScenarioOptions struct {
	*RootOptions
	Database string // record runs in this SQLite file
	RulesDir string // CUE rule sets available by name
}

func (o *ScenarioOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Database, "db", "", "record runs and rule firings in this SQLite database")
	cmd.Flags().StringVar(&o.RulesDir, "rules", "", "directory of CUE rule sets scenarios may name")
}

// harness builds a Harness from the flags. The returned closer releases
// the store, if one was opened.
func (o *ScenarioOptions) harness(cmd *cobra.Command) (*harness.Harness, func() error, error) {
	hopts := []harness.Option{harness.WithLogger(o.Logger(cmd.ErrOrStderr()))}
	closer := func() error { return nil }

	if o.RulesDir != "" {
		specs, err := loadValidRuleSets(o.RulesDir)
		if err != nil {
			return nil, nil, err
		}
		hopts = append(hopts, harness.WithRuleSets(specs))
	}

	if o.Database != "" {
		st, err := store.Open(o.Database)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "failed to open database", err)
		}
		// Stored runs need unique ids across invocations.
		hopts = append(hopts, harness.WithStore(st), harness.WithRunIDs(engine.UUIDv7Generator{}))
		closer = st.Close
	}

	return harness.New(hopts...), closer, nil
}

// ScenarioOutput is the printed form of one scenario run.
type ScenarioOutput struct {
	Scenario string `json:"scenario"`
	Kind     string `json:"kind"`
	*harness.Result
}

// RenderText prints outputs one per line; the trace only in verbose mode.
func (s ScenarioOutput) RenderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "scenario: %s (%s)\n", s.Scenario, s.Kind)
	if s.Simplified != "" {
		fmt.Fprintf(w, "simplified: %s\n", s.Simplified)
	}
	if s.Eval != "" {
		fmt.Fprintf(w, "eval: %s\n", s.Eval)
	}
	if s.Outcome != "" {
		fmt.Fprintf(w, "outcome: %s\n", s.Outcome)
	}
	if s.Compensation != "" {
		fmt.Fprintf(w, "compensation: %s\n", s.Compensation)
	}
	if s.Fields != nil {
		fmt.Fprintf(w, "fields: %s\n", strings.Join(s.Fields, ", "))
	}
	if s.Covered != nil {
		fmt.Fprintf(w, "covered: %t\n", *s.Covered)
	}
	if s.ErrorCode != "" {
		fmt.Fprintf(w, "error: %s: %s\n", s.ErrorCode, s.ErrorMessage)
	}
	fmt.Fprintf(w, "steps: %d\n", s.Steps)
	if verbose {
		writeTrace(w, s.Trace)
	}
	for _, e := range s.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

func writeTrace(w io.Writer, trace []harness.TraceEvent) {
	for _, ev := range trace {
		root := ""
		if ev.Root {
			root = " (root)"
		}
		fmt.Fprintf(w, "  [%d] %s%s: %s => %s\n", ev.Seq, ev.Rule, root, ev.Before, ev.After)
	}
}

// runScenarioFile loads one scenario of the given kind and prints its
// result. Failed expectations exit with ExitFailure.
func runScenarioFile(opts *ScenarioOptions, path, kind string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sc, err := harness.LoadScenario(path)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	if sc.Kind != kind {
		msg := fmt.Sprintf("scenario %s has kind %q, want %q", sc.Name, sc.Kind, kind)
		_ = formatter.Error(ErrCodeScenario, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	h, closeStore, err := opts.harness(cmd)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return err
	}
	defer func() { _ = closeStore() }()

	formatter.VerboseLog("Running %s scenario %s", sc.Kind, sc.Name)
	res, err := h.Run(cmd.Context(), sc)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	out := ScenarioOutput{Scenario: sc.Name, Kind: sc.Kind, Result: res}
	if !res.Pass {
		msg := fmt.Sprintf("%d expectation(s) failed", len(res.Errors))
		if err := formatter.Failure(ErrCodeExpectations, msg, out); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(out)
}
