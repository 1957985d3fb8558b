package engine

import (
	"sync"

	"github.com/roach88/sieve/internal/expr"
)

// Event records one adopted rewrite.
type Event struct {
	RunID  string
	Seq    int64
	Rule   string
	Kind   expr.Kind
	Before string
	After  string
	// Root is true when the rewrite happened at the root position.
	Root bool
}

// Tracer receives an Event for every adopted rewrite, in order.
type Tracer interface {
	OnRewrite(Event)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(Event)

// OnRewrite implements Tracer.
func (fn TracerFunc) OnRewrite(ev Event) { fn(ev) }

// Recorder is a Tracer that keeps every event in memory.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// OnRewrite implements Tracer.
func (r *Recorder) OnRewrite(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Rules returns the rule name of every recorded event, in order.
func (r *Recorder) Rules() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, ev := range events {
		out[i] = ev.Rule
	}
	return out
}
