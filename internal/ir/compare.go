package ir

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
)

// decimalCtx is the context for folded decimal arithmetic.
var decimalCtx = apd.BaseContext.WithPrecision(34)

// ErrDivisionByZero is returned by Arith for a zero divisor.
var ErrDivisionByZero = errors.New("division by zero")

// Compare orders two literals of the same family. Integers and decimals
// form one numeric family. ok is false for null, for mixed families and
// for arrays/objects.
func Compare(a, b IRValue) (c int, ok bool) {
	switch x := a.(type) {
	case IRInt:
		switch y := b.(type) {
		case IRInt:
			return cmpInt(int64(x), int64(y)), true
		case IRDecimal:
			return apd.New(int64(x), 0).Cmp(y.Decimal()), true
		}
	case IRDecimal:
		switch y := b.(type) {
		case IRInt:
			return x.Decimal().Cmp(apd.New(int64(y), 0)), true
		case IRDecimal:
			return x.Decimal().Cmp(y.Decimal()), true
		}
	case IRString:
		if y, isStr := b.(IRString); isStr {
			return strings.Compare(string(x), string(y)), true
		}
	case IRBool:
		if y, isBool := b.(IRBool); isBool {
			switch {
			case x == y:
				return 0, true
			case !bool(x):
				return -1, true
			default:
				return 1, true
			}
		}
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Equal reports structural equality. Unlike Compare, null equals null and
// arrays and objects compare element-wise. 1 and 1.0 are equal.
func Equal(a, b IRValue) bool {
	if c, ok := Compare(a, b); ok {
		return c == 0
	}
	switch x := a.(type) {
	case IRNull:
		_, isNull := b.(IRNull)
		return isNull
	case IRArray:
		y, isArr := b.(IRArray)
		if !isArr || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case IRObject:
		y, isObj := b.(IRObject)
		if !isObj || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, present := y[k]
			if !present || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return false
}

// ArithOp identifies a binary arithmetic operator.
type ArithOp int

const (
	OpAdd ArithOp = iota + 1
	OpSub
	OpMul
	OpDiv
)

// String returns the operator symbol.
func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?" + strconv.Itoa(int(op))
	}
}

// ParseArithOp parses an operator symbol.
func ParseArithOp(s string) (ArithOp, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	default:
		return 0, false
	}
}

// Arith applies op to two numeric literals. Null operands produce null.
// Integer operands stay integers when the exact result fits in int64;
// integer division truncates toward zero. ok is false when the operands are
// not numeric.
func Arith(op ArithOp, a, b IRValue) (IRValue, bool, error) {
	if isNull(a) || isNull(b) {
		return IRNull{}, true, nil
	}
	x, xok := numeric(a)
	y, yok := numeric(b)
	if !xok || !yok {
		return nil, false, nil
	}

	_, aInt := a.(IRInt)
	_, bInt := b.(IRInt)
	bothInt := aInt && bInt

	var res apd.Decimal
	var err error
	switch op {
	case OpAdd:
		_, err = decimalCtx.Add(&res, x, y)
	case OpSub:
		_, err = decimalCtx.Sub(&res, x, y)
	case OpMul:
		_, err = decimalCtx.Mul(&res, x, y)
	case OpDiv:
		if y.IsZero() {
			return nil, false, ErrDivisionByZero
		}
		if bothInt {
			_, err = decimalCtx.QuoInteger(&res, x, y)
		} else {
			_, err = decimalCtx.Quo(&res, x, y)
		}
	default:
		return nil, false, errors.AssertionFailedf("unknown arithmetic operator %d", op)
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "%s %s %s", Format(a), op, Format(b))
	}

	if bothInt {
		if n, convErr := res.Int64(); convErr == nil {
			return IRInt(n), true, nil
		}
	}
	return decimalOf(&res), true, nil
}

func isNull(v IRValue) bool {
	_, ok := v.(IRNull)
	return ok
}

func numeric(v IRValue) (*apd.Decimal, bool) {
	switch n := v.(type) {
	case IRInt:
		return apd.New(int64(n), 0), true
	case IRDecimal:
		return n.Decimal(), true
	default:
		return nil, false
	}
}

// Format renders a literal the way it appears in expression text: strings
// single-quoted, null as "null".
func Format(v IRValue) string {
	switch x := v.(type) {
	case IRNull:
		return "null"
	case IRString:
		return "'" + strings.ReplaceAll(string(x), "'", "''") + "'"
	case IRInt:
		return strconv.FormatInt(int64(x), 10)
	case IRBool:
		return strconv.FormatBool(bool(x))
	case IRDecimal:
		return x.String()
	case IRArray:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Format(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case IRObject:
		keys := x.SortedKeys()
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + Format(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}
