package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/expr"
)

// RuntimeError represents a contract violation detected during a run.
//
// Runtime errors include:
//   - Child family: a node could not be rebuilt over its rewritten children
//   - Multiple results: a rule yielded more than once for one match
//   - Rule failure: a rule callback panicked
//   - Quota exceeded: the run adopted too many rewrites
//   - No result: a computation left no result on the final root
//
// All of them indicate a bug in a rule or in the engine, not bad input.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Rule names the rule involved, if any.
	Rule string

	// Node is the node under consideration when the error was detected.
	Node expr.NodeID

	// Cause is the underlying error, if any.
	Cause error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeChildFamily indicates a rewritten child no longer fits its
	// parent, e.g. a value rewritten into a predicate.
	ErrCodeChildFamily RuntimeErrorCode = "CHILD_FAMILY"

	// ErrCodeMultipleResults indicates more than one yield for one match.
	ErrCodeMultipleResults RuntimeErrorCode = "MULTIPLE_RESULTS"

	// ErrCodeRuleFailed indicates a rule callback panicked.
	ErrCodeRuleFailed RuntimeErrorCode = "RULE_FAILED"

	// ErrCodeQuotaExceeded indicates the run exceeded max steps.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeNoResult indicates a computation produced no result for the
	// final root.
	ErrCodeNoResult RuntimeErrorCode = "NO_RESULT"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Rule != "" {
		msg += fmt.Sprintf(" (rule=%s, node=%d)", e.Rule, e.Node)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the cause, so that errors.Is, errors.As and
// errors.HasAssertionFailure see through RuntimeError.
func (e *RuntimeError) Unwrap() error { return e.Cause }

// IsQuotaError returns true if the error is a quota exceeded error.
// Matches both RuntimeError with ErrCodeQuotaExceeded and StepsExceededError.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) && re.Code == ErrCodeQuotaExceeded {
		return true
	}
	return IsStepsExceededError(err)
}

// HasCode returns true if err is a RuntimeError with the given code.
func HasCode(err error, code RuntimeErrorCode) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == code
}

// newChildFamilyError converts a panic raised while rebuilding e over its
// rewritten children.
func newChildFamilyError(runID string, e expr.Expr, recovered any) *RuntimeError {
	cause, ok := recovered.(error)
	if !ok {
		cause = errors.AssertionFailedf("panic: %v", recovered)
	}
	return &RuntimeError{
		Code:    ErrCodeChildFamily,
		Message: fmt.Sprintf("%s node cannot be rebuilt over its rewritten children", e.Kind()),
		RunID:   runID,
		Node:    e.ID(),
		Cause:   cause,
	}
}

func newMultipleResultsError(runID, rule string, e expr.Expr, n int) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeMultipleResults,
		Message: fmt.Sprintf("rule yielded %d results for one match", n),
		RunID:   runID,
		Rule:    rule,
		Node:    e.ID(),
		Cause:   errors.AssertionFailedf("at most one yield per match"),
	}
}

// newRuleFailure converts a recovered panic into an error. Panics carrying
// an error keep it as the cause; anything else becomes an assertion
// failure.
func newRuleFailure(runID, rule string, e expr.Expr, recovered any) *RuntimeError {
	cause, ok := recovered.(error)
	if !ok {
		cause = errors.AssertionFailedf("panic: %v", recovered)
	}
	return &RuntimeError{
		Code:    ErrCodeRuleFailed,
		Message: "rule callback panicked",
		RunID:   runID,
		Rule:    rule,
		Node:    e.ID(),
		Cause:   cause,
	}
}

// NoResultError reports that a computation left no result on root. Compute
// itself returns ok=false; callers that require a result use this.
func NoResultError(root expr.Expr) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeNoResult,
		Message: fmt.Sprintf("no result for final %s root", root.Kind()),
		Node:    root.ID(),
		Cause:   errors.AssertionFailedf("every node must yield a result"),
	}
}
