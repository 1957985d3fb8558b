package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is a failed expectation. It carries the run's trace to
// help debug the failure.
type AssertionError struct {
	Field    string       // expectation that failed, e.g. "simplified"
	Expected string       // Human-readable expected value
	Actual   string       // Human-readable actual value
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s: %s => %s\n", ev.Seq, ev.Rule, ev.Before, ev.After)
		}
	}

	return buf.String()
}

// CheckExpectations compares r against the scenario's expectations and
// returns one error per mismatch.
func CheckExpectations(ex Expect, r *Result) []error {
	var errs []error
	fail := func(field, expected, actual string) {
		errs = append(errs, &AssertionError{Field: field, Expected: expected, Actual: actual, Trace: r.Trace})
	}
	orNone := func(s string) string {
		if s == "" {
			return "(none)"
		}
		return s
	}

	switch {
	case ex.Error == "" && r.ErrorCode != "":
		fail("error", "(none)", r.ErrorMessage)
	case ex.Error != r.ErrorCode:
		fail("error", ex.Error, orNone(r.ErrorCode))
	}
	if ex.Error != "" {
		// Nothing else is meaningful once the run failed.
		return errs
	}

	if ex.Simplified != "" && ex.Simplified != r.Simplified {
		fail("simplified", ex.Simplified, orNone(r.Simplified))
	}
	if ex.Eval != "" && ex.Eval != r.Eval {
		fail("eval", ex.Eval, orNone(r.Eval))
	}
	if ex.Outcome != "" && ex.Outcome != r.Outcome {
		fail("outcome", ex.Outcome, orNone(r.Outcome))
	}
	if ex.Compensation != "" && ex.Compensation != r.Compensation {
		fail("compensation", ex.Compensation, orNone(r.Compensation))
	}
	if ex.Fields != nil && !slices.Equal(ex.Fields, r.Fields) {
		fail("fields", fmt.Sprint(ex.Fields), fmt.Sprint(r.Fields))
	}
	if ex.Covered != nil {
		switch {
		case r.Covered == nil:
			fail("covered", fmt.Sprint(*ex.Covered), "(none)")
		case *ex.Covered != *r.Covered:
			fail("covered", fmt.Sprint(*ex.Covered), fmt.Sprint(*r.Covered))
		}
	}
	return errs
}
