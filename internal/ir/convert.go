package ir

import (
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// FromAny converts a decoded YAML or JSON value into an IRValue. Whole
// floats become integers; other floats become decimals using their shortest
// exact textual form.
func FromAny(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return IRNull{}, nil
	case IRValue:
		return val, nil
	case bool:
		return IRBool(val), nil
	case string:
		return IRString(val), nil
	case int:
		return IRInt(val), nil
	case int64:
		return IRInt(val), nil
	case uint64:
		if val > math.MaxInt64 {
			return nil, errors.Newf("integer out of int64 range: %d", val)
		}
		return IRInt(val), nil
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return IRInt(int64(val)), nil
		}
		return NewIRDecimal(strconv.FormatFloat(val, 'f', -1, 64))
	case []any:
		arr := make(IRArray, len(val))
		for i, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, errors.Wrapf(err, "array[%d]", i)
			}
			arr[i] = irElem
		}
		return arr, nil
	case map[string]any:
		obj := make(IRObject, len(val))
		for k, elem := range val {
			irElem, err := FromAny(elem)
			if err != nil {
				return nil, errors.Wrapf(err, "object[%q]", k)
			}
			obj[k] = irElem
		}
		return obj, nil
	default:
		return nil, errors.Newf("unsupported literal type: %T", v)
	}
}
