package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/engine"
)

// Run kinds.
const (
	KindSimplify = "simplify"
	KindCompute  = "compute"
	KindMatch    = "match"
)

// Run statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Run is one recorded engine run.
type Run struct {
	ID      string
	Kind    string
	RuleSet string
	Rules   []string
	Input   string
	// InputHash is filled in by WriteRun when empty.
	InputHash string
	Output    string
	Status    string
	Error     string
	Steps     int
	Seq       int64
}

// Firing is one adopted rewrite within a run.
type Firing struct {
	RunID  string
	Seq    int64
	Rule   string
	Kind   string
	Before string
	After  string
	AtRoot bool
}

// FiringFromEvent converts an engine trace event into a Firing of runID.
func FiringFromEvent(runID string, ev engine.Event) Firing {
	return Firing{
		RunID:  runID,
		Seq:    ev.Seq,
		Rule:   ev.Rule,
		Kind:   ev.Kind.String(),
		Before: ev.Before,
		After:  ev.After,
		AtRoot: ev.Root,
	}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// WriteRun inserts a run record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	return writeRun(ctx, s.db, run)
}

func writeRun(ctx context.Context, db execer, run Run) error {
	rulesJSON, err := marshalRules(run.Rules)
	if err != nil {
		return errors.Wrap(err, "write run")
	}
	if run.InputHash == "" {
		run.InputHash, err = InputDigest(run.Kind, run.Input, run.Rules)
		if err != nil {
			return errors.Wrap(err, "write run")
		}
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs
		(id, kind, ruleset, rules, input, input_hash, output, status, error, steps, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Kind,
		run.RuleSet,
		rulesJSON,
		run.Input,
		run.InputHash,
		run.Output,
		run.Status,
		run.Error,
		run.Steps,
		run.Seq,
	)
	if err != nil {
		return errors.Wrapf(err, "write run %s", run.ID)
	}
	return nil
}

// WriteFiring inserts a rule firing. The run it references must exist.
// A second firing with the same (run_id, seq) is silently ignored.
func (s *Store) WriteFiring(ctx context.Context, f Firing) error {
	return writeFiring(ctx, s.db, f)
}

func writeFiring(ctx context.Context, db execer, f Firing) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO rule_firings
		(run_id, seq, rule, kind, before_expr, after_expr, at_root)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`,
		f.RunID,
		f.Seq,
		f.Rule,
		f.Kind,
		f.Before,
		f.After,
		boolToInt(f.AtRoot),
	)
	if err != nil {
		return errors.Wrapf(err, "write firing %s/%d", f.RunID, f.Seq)
	}
	return nil
}

// RecordRun writes run and one firing per event in a single transaction.
// Every firing is stored under run.ID regardless of the event's own run id.
func (s *Store) RecordRun(ctx context.Context, run Run, events []engine.Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin record run")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = writeRun(ctx, tx, run); err != nil {
		return err
	}
	for _, ev := range events {
		if err = writeFiring(ctx, tx, FiringFromEvent(run.ID, ev)); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit record run")
	}
	return nil
}
