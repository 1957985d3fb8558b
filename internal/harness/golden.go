package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/sieve/internal/ir"
)

// Snapshot renders the deterministic part of a result as canonical JSON:
// the trace and every output, without pass/fail state.
func Snapshot(name string, r *Result) ([]byte, error) {
	trace := make([]any, len(r.Trace))
	for i, ev := range r.Trace {
		trace[i] = map[string]any{
			"seq":    ev.Seq,
			"rule":   ev.Rule,
			"kind":   ev.Kind,
			"before": ev.Before,
			"after":  ev.After,
			"root":   ev.Root,
		}
	}

	out := map[string]any{
		"scenario": name,
		"steps":    r.Steps,
		"trace":    trace,
	}
	if r.Simplified != "" {
		out["simplified"] = r.Simplified
	}
	if r.Eval != "" {
		out["eval"] = r.Eval
	}
	if r.Outcome != "" {
		out["outcome"] = r.Outcome
	}
	if r.Compensation != "" {
		out["compensation"] = r.Compensation
	}
	if r.Fields != nil {
		fields := make([]any, len(r.Fields))
		for i, f := range r.Fields {
			fields[i] = f
		}
		out["fields"] = fields
	}
	if r.Covered != nil {
		out["covered"] = *r.Covered
	}
	if r.ErrorCode != "" {
		out["error"] = r.ErrorCode
	}
	return ir.MarshalCanonical(out)
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
