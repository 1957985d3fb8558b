package store

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
)

// ErrRunNotFound is returned by ReadRun for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

const runColumns = `id, kind, ruleset, rules, input, input_hash, output, status, error, steps, seq`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run       Run
		rulesJSON string
	)
	if err := row.Scan(
		&run.ID,
		&run.Kind,
		&run.RuleSet,
		&rulesJSON,
		&run.Input,
		&run.InputHash,
		&run.Output,
		&run.Status,
		&run.Error,
		&run.Steps,
		&run.Seq,
	); err != nil {
		return Run{}, err
	}
	rules, err := unmarshalRules(rulesJSON)
	if err != nil {
		return Run{}, errors.Wrapf(err, "run %s", run.ID)
	}
	run.Rules = rules
	return run, nil
}

// ReadRun retrieves a single run by id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, errors.Wrapf(ErrRunNotFound, "%s", id)
	}
	if err != nil {
		return Run{}, errors.Wrapf(err, "read run %s", id)
	}
	return run, nil
}

// ListRuns returns every run ordered by seq, then id.
//
// Returns an empty slice (not nil) if the store holds no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	return runs, nil
}

// RunsByInput returns the runs whose input digest equals hash, ordered
// by seq, then id.
func (s *Store) RunsByInput(ctx context.Context, hash string) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE input_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, hash)
	if err != nil {
		return nil, errors.Wrap(err, "query runs by input")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs by input")
	}
	return runs, nil
}

// ReadFirings returns the firings of a run in adoption order.
//
// Returns an empty slice (not nil) if the run has no firings.
func (s *Store) ReadFirings(ctx context.Context, runID string) ([]Firing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, rule, kind, before_expr, after_expr, at_root
		FROM rule_firings
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query firings")
	}
	defer rows.Close()

	firings := []Firing{}
	for rows.Next() {
		var (
			f      Firing
			atRoot int
		)
		if err := rows.Scan(&f.RunID, &f.Seq, &f.Rule, &f.Kind, &f.Before, &f.After, &atRoot); err != nil {
			return nil, errors.Wrap(err, "scan firing")
		}
		f.AtRoot = atRoot != 0
		firings = append(firings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate firings")
	}
	return firings, nil
}

// RuleCount is the number of recorded firings of one rule.
type RuleCount struct {
	Rule  string
	Count int
}

// RuleCounts returns firing counts per rule across all runs, most
// frequent first and ties broken by rule name.
func (s *Store) RuleCounts(ctx context.Context) ([]RuleCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rule, COUNT(*) AS n
		FROM rule_firings
		GROUP BY rule
		ORDER BY n DESC, rule COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query rule counts")
	}
	defer rows.Close()

	counts := []RuleCount{}
	for rows.Next() {
		var c RuleCount
		if err := rows.Scan(&c.Rule, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scan rule count")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rule counts")
	}
	return counts, nil
}
