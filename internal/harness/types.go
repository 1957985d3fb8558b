package harness

import "github.com/roach88/sieve/internal/engine"

// TraceEvent is one adopted rewrite of a scenario run.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Rule   string `json:"rule"`
	Kind   string `json:"kind"`
	Before string `json:"before"`
	After  string `json:"after"`
	Root   bool   `json:"root"`
}

func traceOf(events []engine.Event) []TraceEvent {
	out := make([]TraceEvent, len(events))
	for i, ev := range events {
		out[i] = TraceEvent{
			Seq:    ev.Seq,
			Rule:   ev.Rule,
			Kind:   ev.Kind.String(),
			Before: ev.Before,
			After:  ev.After,
			Root:   ev.Root,
		}
	}
	return out
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation holds.
	Pass bool `json:"pass"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	RunID string       `json:"run_id"`
	Trace []TraceEvent `json:"trace"`
	// Steps is the number of adopted rewrites.
	Steps int `json:"steps"`

	Simplified   string   `json:"simplified,omitempty"`
	Eval         string   `json:"eval,omitempty"`
	Outcome      string   `json:"outcome,omitempty"`
	Compensation string   `json:"compensation,omitempty"`
	Fields       []string `json:"fields,omitempty"`
	Covered      *bool    `json:"covered,omitempty"`

	// ErrorCode is the runtime error code the run failed with.
	ErrorCode string `json:"error_code,omitempty"`
	// ErrorMessage is the full runtime error text.
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(runID string) *Result {
	return &Result{
		Pass:   true,
		RunID:  runID,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Rules returns the rule name of every trace event, in order.
func (r *Result) Rules() []string {
	out := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		out[i] = ev.Rule
	}
	return out
}
