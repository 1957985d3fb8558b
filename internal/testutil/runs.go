package testutil

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/expr"
)

// RunIDs returns a generator for n run ids "prefix-1" ... "prefix-n".
func RunIDs(prefix string, n int) *engine.FixedGenerator {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s-%d", prefix, i+1)
	}
	return engine.NewFixedGenerator(ids...)
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Engine returns an engine with deterministic run ids and sequence
// numbers, quiet logging and a recorder attached. Extra options are
// applied last.
func Engine(f *expr.Factory, opts ...engine.Option) (*engine.Engine, *engine.Recorder) {
	rec := &engine.Recorder{}
	base := []engine.Option{
		engine.WithLogger(DiscardLogger()),
		engine.WithClock(NewDeterministicClock()),
		engine.WithRunIDs(RunIDs("run", 64)),
		engine.WithTracer(rec),
	}
	return engine.New(f, append(base, opts...)...), rec
}
