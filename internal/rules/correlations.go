package rules

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/engine"
	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/rule"
)

// Correlation is the result of the correlation computation for a subtree.
type Correlation struct {
	// Fields lists the field references of the subtree in left-to-right
	// order, e.g. "q.a".
	Fields []string
	// Covered is true when every referenced correlation is available or
	// constant.
	Covered bool
}

// CorrelationCall is the call type of CorrelationRules. The argument is
// the set of available correlations.
type CorrelationCall = *rule.ComputationCall[expr.AliasSet, Correlation]

var collectFields = rule.New("collect_fields", rule.Any(), func(c CorrelationCall) {
	out := Correlation{Covered: true}
	if f, ok := c.Current().(*expr.Field); ok {
		out.Fields = []string{f.String()}
		out.Covered = c.Argument().Contains(f.Alias()) || c.Constants().Contains(f.Alias())
	}
	for _, child := range expr.Children(c.Current()) {
		r, ok := c.ResultOf(child)
		if !ok {
			panic(errors.AssertionFailedf("%s child %d has no correlation result", child.Kind(), child.ID()))
		}
		out.Fields = append(out.Fields, r.Fields...)
		out.Covered = out.Covered && r.Covered
	}
	c.YieldResult(c.Current(), out)
})

// CorrelationRules returns the correlation computation rule set.
func CorrelationRules() *rule.RuleSet[CorrelationCall] {
	return rule.MustRuleSet(collectFields)
}

// ComputeCorrelations runs CorrelationRules over root. available lists the
// correlations the caller can supply; constants are always covered.
func ComputeCorrelations(
	ctx context.Context,
	eng *engine.Engine,
	root expr.Expr,
	available expr.AliasSet,
	constants expr.AliasSet,
) (Correlation, error) {
	res, ok, err := engine.Compute(ctx, eng, root, available, expr.AliasMap{}, constants, CorrelationRules())
	if err != nil {
		return Correlation{}, err
	}
	if !ok {
		return Correlation{}, engine.NoResultError(res.Expr)
	}
	return res.Value, nil
}
