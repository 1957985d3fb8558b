package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/sieve/internal/expr"
	"github.com/roach88/sieve/internal/ir"
	"github.com/roach88/sieve/internal/ranges"
	"github.com/roach88/sieve/internal/tri"
)

// ExprSpec is an expression written in scenario YAML. The node is kept
// as decoded and built against a factory when the scenario runs.
//
// Predicates:
//
//	{and: [p, ...]}  {or: [p, ...]}  {not: p}
//	{constant: true|false|unknown}   true   false
//	{"=": [v, v]}  {"<": [v, v]}  ... every comparison operator
//	{is_null: v}  {is_not_null: v}
//	{in: {value: v, ranges: [[{">": c}, {"<": c}], ...]}}
//
// Values:
//
//	42  2.5  "text"  null
//	{field: q.a}  {param: limit}  {const: 42}
//	{"+": [v, v]}  {"-": [v, v]}  {"*": [v, v]}  {"/": [v, v]}
type ExprSpec struct {
	node *yaml.Node
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *ExprSpec) UnmarshalYAML(n *yaml.Node) error {
	s.node = n
	return nil
}

// IsZero reports whether no expression was given.
func (s *ExprSpec) IsZero() bool { return s == nil || s.node == nil }

// Predicate builds the expression as a predicate.
func (s *ExprSpec) Predicate(f *expr.Factory) (expr.Predicate, error) {
	if s.IsZero() {
		return nil, errors.New("expression is empty")
	}
	return buildPredicate(f, s.node)
}

// ParsePredicate parses a predicate from YAML source.
func ParsePredicate(f *expr.Factory, src string) (expr.Predicate, error) {
	var s ExprSpec
	if err := yaml.Unmarshal([]byte(src), &s); err != nil {
		return nil, errors.Wrap(err, "parse predicate")
	}
	return s.Predicate(f)
}

func nodeErrorf(n *yaml.Node, format string, args ...any) error {
	return errors.Newf("line %d: %s", n.Line, fmt.Sprintf(format, args...))
}

// single returns the only key and value of a one-entry mapping.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return "", nil, nodeErrorf(n, "expected a mapping with exactly one key")
	}
	return n.Content[0].Value, n.Content[1], nil
}

func buildPredicate(f *expr.Factory, n *yaml.Node) (expr.Predicate, error) {
	if n.Kind == yaml.ScalarNode {
		if n.Tag != "!!bool" {
			return nil, nodeErrorf(n, "scalar %q is not a predicate", n.Value)
		}
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, nodeErrorf(n, "bad bool %q", n.Value)
		}
		return f.Constant(tri.Of(b)), nil
	}

	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "and", "or":
		ps, err := buildPredicates(f, val)
		if err != nil {
			return nil, err
		}
		if key == "and" {
			return f.And(ps...), nil
		}
		return f.Or(ps...), nil
	case "not":
		p, err := buildPredicate(f, val)
		if err != nil {
			return nil, err
		}
		return f.Not(p), nil
	case "constant":
		t, err := tri.Parse(val.Value)
		if err != nil {
			return nil, nodeErrorf(val, "bad constant %q", val.Value)
		}
		return f.Constant(t), nil
	case "is_null", "is_not_null":
		v, err := buildValue(f, val)
		if err != nil {
			return nil, err
		}
		op := ranges.OpIsNull
		if key == "is_not_null" {
			op = ranges.OpIsNotNull
		}
		return f.Compare(op, v, nil), nil
	case "in":
		return buildRangeConstraint(f, val)
	}

	op, ok := ranges.ParseCompareOp(key)
	if !ok || op.Unary() {
		return nil, nodeErrorf(n, "unknown predicate %q", key)
	}
	l, r, err := buildPair(f, val)
	if err != nil {
		return nil, err
	}
	return f.Compare(op, l, r), nil
}

func buildPredicates(f *expr.Factory, n *yaml.Node) ([]expr.Predicate, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return nil, nodeErrorf(n, "expected a non-empty list of predicates")
	}
	ps := make([]expr.Predicate, len(n.Content))
	for i, c := range n.Content {
		p, err := buildPredicate(f, c)
		if err != nil {
			return nil, err
		}
		ps[i] = p
	}
	return ps, nil
}

func buildPair(f *expr.Factory, n *yaml.Node) (expr.Value, expr.Value, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return nil, nil, nodeErrorf(n, "expected a list of two values")
	}
	l, err := buildValue(f, n.Content[0])
	if err != nil {
		return nil, nil, err
	}
	r, err := buildValue(f, n.Content[1])
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// buildRangeConstraint reads {value: v, ranges: [[cmp, ...], ...]}. Each
// inner list is the conjunction of comparisons bounding one range.
func buildRangeConstraint(f *expr.Factory, n *yaml.Node) (expr.Predicate, error) {
	if n.Kind != yaml.MappingNode {
		return nil, nodeErrorf(n, "in: expected a mapping with value and ranges")
	}
	var subject expr.Value
	var rs []ranges.Range
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		switch k.Value {
		case "value":
			val, err := buildValue(f, v)
			if err != nil {
				return nil, err
			}
			subject = val
		case "ranges":
			if v.Kind != yaml.SequenceNode || len(v.Content) == 0 {
				return nil, nodeErrorf(v, "in: ranges must be a non-empty list")
			}
			for _, rn := range v.Content {
				r, err := buildRange(f, rn)
				if err != nil {
					return nil, err
				}
				rs = append(rs, r)
			}
		default:
			return nil, nodeErrorf(k, "in: unknown key %q", k.Value)
		}
	}
	if subject == nil || len(rs) == 0 {
		return nil, nodeErrorf(n, "in: value and ranges are required")
	}
	return f.RangeConstraint(subject, rs...), nil
}

func buildRange(f *expr.Factory, n *yaml.Node) (ranges.Range, error) {
	if n.Kind != yaml.SequenceNode {
		return ranges.Range{}, nodeErrorf(n, "range: expected a list of comparisons")
	}
	b := ranges.NewBuilder()
	for _, cn := range n.Content {
		key, val, err := single(cn)
		if err != nil {
			return ranges.Range{}, err
		}
		op, ok := ranges.ParseCompareOp(key)
		if !ok {
			return ranges.Range{}, nodeErrorf(cn, "range: unknown operator %q", key)
		}
		v, err := buildValue(f, val)
		if err != nil {
			return ranges.Range{}, err
		}
		operand, ok := v.(ranges.Operand)
		if !ok {
			return ranges.Range{}, nodeErrorf(val, "range: bound must be a constant or parameter")
		}
		if !b.Add(ranges.Comparison{Op: op, Operand: operand}) {
			return ranges.Range{}, nodeErrorf(cn, "range: operator %q cannot bound a range", key)
		}
	}
	r, ok := b.Build()
	if !ok {
		return ranges.Range{}, nodeErrorf(n, "range: bounds are contradictory")
	}
	return r, nil
}

func buildValue(f *expr.Factory, n *yaml.Node) (expr.Value, error) {
	if n.Kind == yaml.ScalarNode {
		v, err := scalarLiteral(n)
		if err != nil {
			return nil, err
		}
		return f.Const(v), nil
	}

	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	switch key {
	case "field":
		alias, name, ok := strings.Cut(val.Value, ".")
		if !ok || alias == "" || name == "" {
			return nil, nodeErrorf(val, "field %q must be alias.name", val.Value)
		}
		return f.Field(expr.CorrelationID(alias), name), nil
	case "param":
		if val.Value == "" {
			return nil, nodeErrorf(val, "param name is required")
		}
		return f.Param(val.Value), nil
	case "const":
		v, err := scalarLiteral(val)
		if err != nil {
			return nil, err
		}
		return f.Const(v), nil
	}

	op, ok := ir.ParseArithOp(key)
	if !ok {
		return nil, nodeErrorf(n, "unknown value %q", key)
	}
	l, r, err := buildPair(f, val)
	if err != nil {
		return nil, err
	}
	return f.Arith(op, l, r), nil
}

func scalarLiteral(n *yaml.Node) (ir.IRValue, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, nodeErrorf(n, "expected a literal")
	}
	switch n.Tag {
	case "!!null":
		return ir.IRNull{}, nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, nodeErrorf(n, "bad integer %q", n.Value)
		}
		return ir.IRInt(i), nil
	case "!!float":
		d, err := ir.NewIRDecimal(n.Value)
		if err != nil {
			return nil, nodeErrorf(n, "bad decimal %q", n.Value)
		}
		return d, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, nodeErrorf(n, "bad bool %q", n.Value)
		}
		return ir.IRBool(b), nil
	default:
		return ir.IRString(n.Value), nil
	}
}
