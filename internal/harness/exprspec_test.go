package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sieve/internal/expr"
)

func TestParsePredicate(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"comparison", `{">": [{field: q.a}, 5]}`, "q.a > 5"},
		{"string literal", `{"=": [{field: q.s}, "x"]}`, "q.s = 'x'"},
		{"decimal literal", `{"<": [{field: q.a}, 2.5]}`, "q.a < 2.5"},
		{"null literal", `{"=": [{field: q.a}, null]}`, "q.a = null"},
		{"explicit const", `{"=": [{field: q.a}, {const: 3}]}`, "q.a = 3"},
		{"arithmetic and param", `{"=": [{"*": [{field: q.a}, 2]}, {param: limit}]}`, "(q.a * 2) = $limit"},
		{"bool shorthand", `{and: [true, {is_not_null: {field: q.b}}]}`, "(TRUE) and (q.b IS NOT NULL)"},
		{"constant", `{not: {constant: unknown}}`, "not (UNKNOWN)"},
		{"disjunction", `{or: [{is_null: {field: q.a}}, false]}`, "(q.a IS NULL) or (FALSE)"},
		{"single child", `{or: [{is_null: {field: q.a}}]}`, "q.a IS NULL"},
		{
			"range constraint",
			`{in: {value: {field: q.a}, ranges: [[{">": 3}, {"<": 10}], [{"=": 50}]]}}`,
			"q.a IN {(3, 10), [50]}",
		},
		{
			"unbounded range",
			`{in: {value: {field: q.a}, ranges: [[{">=": 6}]]}}`,
			"q.a IN {[6, +inf)}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePredicate(expr.NewFactory(), tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.String())
		})
	}
}

func TestParsePredicateErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"empty", ``, "expression is empty"},
		{"unknown predicate", `{xor: [true]}`, `unknown predicate "xor"`},
		{"scalar", `7`, "is not a predicate"},
		{"empty list", `{and: []}`, "non-empty list"},
		{"one operand", `{">": [1]}`, "two values"},
		{"bad field", `{"=": [{field: qa}, 1]}`, "alias.name"},
		{"unknown value", `{"=": [{column: q.a}, 1]}`, `unknown value "column"`},
		{"two keys", `{is_null: {field: q.a}, not: true}`, "exactly one key"},
		{"bad constant", `{constant: maybe}`, "bad constant"},
		{
			"field bound",
			`{in: {value: {field: q.a}, ranges: [[{">": {field: q.b}}]]}}`,
			"constant or parameter",
		},
		{
			"contradictory range",
			`{in: {value: {field: q.a}, ranges: [[{">": 10}, {"<": 3}]]}}`,
			"contradictory",
		},
		{
			"unsupported range operator",
			`{in: {value: {field: q.a}, ranges: [[{"!=": 1}]]}}`,
			"cannot bound a range",
		},
		{"missing ranges", `{in: {value: {field: q.a}}}`, "value and ranges are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePredicate(expr.NewFactory(), tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParsePredicateReportsLine(t *testing.T) {
	src := "and:\n  - true\n  - {xor: 1}\n"
	_, err := ParsePredicate(expr.NewFactory(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
