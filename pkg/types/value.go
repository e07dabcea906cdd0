package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go-bptdb/util/helpers"

	"github.com/pkg/errors"
)

// Check reports whether v can be stored in a column of type code.
// Integers are accepted for float columns.
func Check(code TypeCode, v interface{}) bool {
	_, err := Coerce(code, v)
	return err == nil
}

// Coerce converts v to the canonical value of type code: int64, string,
// float64 or bool. Floats must be finite. json.Number is accepted so that decoded snapshots keep
// integer precision, integral float64 values are accepted for integer
// columns.
func Coerce(code TypeCode, v interface{}) (interface{}, error) {
	switch code {
	case TYPE_INTEGER:
		switch x := v.(type) {
		case int:
			return int64(x), nil
		case int8:
			return int64(x), nil
		case int16:
			return int64(x), nil
		case int32:
			return int64(x), nil
		case int64:
			return x, nil
		case uint8:
			return int64(x), nil
		case uint16:
			return int64(x), nil
		case uint32:
			return int64(x), nil
		case json.Number:
			i, err := x.Int64()
			if err != nil {
				return nil, errors.Wrapf(err, "'%s' is not an int", x)
			}
			return i, nil
		case float64:
			if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
				return int64(x), nil
			}
		}
	case TYPE_FLOAT:
		switch x := v.(type) {
		case float64:
			return finite(x)
		case float32:
			return finite(float64(x))
		case json.Number:
			f, err := x.Float64()
			if err != nil {
				return nil, errors.Wrapf(err, "'%s' is not a float", x)
			}
			return finite(f)
		}
		if i, err := Coerce(TYPE_INTEGER, v); err == nil {
			return float64(i.(int64)), nil
		}
	case TYPE_STRING:
		if x, ok := v.(string); ok {
			return x, nil
		}
	case TYPE_BOOL:
		if x, ok := v.(bool); ok {
			return x, nil
		}
	default:
		return nil, errors.Errorf("invalid type code %d", uint8(code))
	}

	return nil, errors.Errorf("expected %s, got %s", code, TypeName(v))
}

// finite rejects NaN and infinities, they have no place in the key order
// and cannot be written to a snapshot.
func finite(f float64) (interface{}, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.Errorf("float value %v is not finite", f)
	}
	return f, nil
}

// TypeName describes the dynamic type of v for error messages.
func TypeName(v interface{}) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

// Compare orders two canonical values. Values of different kinds are
// ordered by kind so that Compare stays a total order.
func Compare(a, b interface{}) int {
	ra, rb := rank(a), rank(b)
	if ra != rb {
		return helpers.Compare(ra, rb)
	}

	switch x := a.(type) {
	case int64:
		return helpers.Compare(x, b.(int64))
	case float64:
		return helpers.Compare(x, b.(float64))
	case string:
		return strings.Compare(x, b.(string))
	case bool:
		y := b.(bool)
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		}
		return 1
	}
	return 0
}

func rank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case int64:
		return 2
	case float64:
		return 3
	case string:
		return 4
	}
	panic(errors.Errorf("value of type %s is not canonical", TypeName(v)))
}
