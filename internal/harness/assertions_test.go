package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCheckExpectations_AllMatch(t *testing.T) {
	r := &Result{
		Simplified: "q.a IS NULL",
		Eval:       "true",
		Fields:     []string{"q.a"},
		Covered:    boolPtr(true),
	}
	ex := Expect{Simplified: "q.a IS NULL", Eval: "true", Fields: []string{"q.a"}, Covered: boolPtr(true)}

	assert.Empty(t, CheckExpectations(ex, r))
}

func TestCheckExpectations_EmptyExpectationsAreSkipped(t *testing.T) {
	assert.Empty(t, CheckExpectations(Expect{}, &Result{Simplified: "anything", Outcome: "exact"}))
}

func TestCheckExpectations_Mismatches(t *testing.T) {
	r := &Result{
		Simplified: "q.a IS NULL",
		Outcome:    "exact",
		Covered:    boolPtr(false),
		Trace:      []TraceEvent{{Seq: 1, Rule: "not_not", Before: "not (not (q.a IS NULL))", After: "q.a IS NULL"}},
	}
	ex := Expect{Simplified: "TRUE", Outcome: "compensated", Covered: boolPtr(true)}

	errs := CheckExpectations(ex, r)
	require.Len(t, errs, 3)

	var ae *AssertionError
	require.ErrorAs(t, errs[0], &ae)
	assert.Equal(t, "simplified", ae.Field)
	assert.Equal(t, "TRUE", ae.Expected)
	assert.Equal(t, "q.a IS NULL", ae.Actual)
	assert.Contains(t, ae.Error(), "[1] not_not: not (not (q.a IS NULL)) => q.a IS NULL")
}

func TestCheckExpectations_Errors(t *testing.T) {
	t.Run("unexpected error", func(t *testing.T) {
		errs := CheckExpectations(Expect{}, &Result{ErrorCode: "QUOTA_EXCEEDED", ErrorMessage: "QUOTA_EXCEEDED: boom"})
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "QUOTA_EXCEEDED: boom")
	})

	t.Run("expected error missing", func(t *testing.T) {
		errs := CheckExpectations(Expect{Error: "QUOTA_EXCEEDED"}, &Result{Simplified: "TRUE"})
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "Actual: (none)")
	})

	t.Run("expected error present", func(t *testing.T) {
		assert.Empty(t, CheckExpectations(Expect{Error: "QUOTA_EXCEEDED", Simplified: "ignored"}, &Result{ErrorCode: "QUOTA_EXCEEDED"}))
	})
}
