package engine

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// QuotaEnforcer counts adopted rewrites within one run and enforces a
// maximum.
//
// A correct rule set reaches a fixpoint. A rule that keeps yielding fresh
// nodes (for example, rebuilding an equal tree) never does; the quota turns
// that into an error instead of a hang.
type QuotaEnforcer struct {
	maxSteps int
	current  int
}

// NewQuotaEnforcer creates a new quota enforcer with the given limit.
func NewQuotaEnforcer(maxSteps int) *QuotaEnforcer {
	return &QuotaEnforcer{maxSteps: maxSteps}
}

// Check records one step and returns StepsExceededError once the count
// passes the limit.
func (q *QuotaEnforcer) Check(runID string) error {
	q.current++
	if q.current > q.maxSteps {
		return &StepsExceededError{RunID: runID, Steps: q.current, Limit: q.maxSteps}
	}
	return nil
}

// Current returns the number of steps recorded.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// MaxSteps returns the limit.
func (q *QuotaEnforcer) MaxSteps() int {
	return q.maxSteps
}

// StepsExceededError is returned when a run adopts more rewrites than its
// quota allows. The run is abandoned.
type StepsExceededError struct {
	RunID string
	Steps int
	Limit int
}

// Error implements the error interface.
func (e *StepsExceededError) Error() string {
	return fmt.Sprintf("run %s exceeded max steps quota: %d steps > %d limit",
		e.RunID, e.Steps, e.Limit)
}

// IsStepsExceededError returns true if the error is a StepsExceededError.
// Uses errors.As to handle wrapped errors.
func IsStepsExceededError(err error) bool {
	var se *StepsExceededError
	return errors.As(err, &se)
}
