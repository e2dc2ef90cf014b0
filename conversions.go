package transit

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// *********** Conversions ***********

func toFloat(x any) (float64, bool) {
	if f, ok := x.(float64); ok {
		return f, true
	}

	if b, ok := x.(bool); ok {
		i, _ := toInt(b)
		return float64(i), true
	}

	if s, ok := x.(string); ok {
		if s = cleanNumber(s); s == "" {
			return math.NaN(), true
		}

		if f, e := strconv.ParseFloat(s, 64); e == nil {
			return f, true
		}

		return 0, false
	}

	if b, ok := x.([]byte); ok {
		return toFloat(string(b))
	}

	xv := reflect.ValueOf(x)
	switch {
	case xv.CanFloat():
		return xv.Float(), true
	case xv.CanInt():
		return float64(xv.Int()), true
	case xv.CanUint():
		return float64(xv.Uint()), true
	}

	// decimal types from database drivers
	if s, ok := x.(fmt.Stringer); ok {
		return toFloat(s.String())
	}

	return 0, false
}

func toInt(x any) (int, bool) {
	if i, ok := x.(int); ok {
		return i, true
	}

	if b, ok := x.(bool); ok {
		if b {
			return 1, true
		}

		return 0, true
	}

	if s, ok := x.(string); ok {
		if i, e := strconv.ParseInt(cleanNumber(s), 10, 64); e == nil {
			return int(i), true
		}

		return 0, false
	}

	if b, ok := x.([]byte); ok {
		return toInt(string(b))
	}

	xv := reflect.ValueOf(x)
	switch {
	case xv.CanInt():
		return int(xv.Int()), true
	case xv.CanUint():
		return int(xv.Uint()), true
	case xv.CanFloat():
		f := xv.Float()
		if f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}

	return 0, false
}

func toString(x any) (string, bool) {
	switch s := x.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case nil:
		return "", false
	}

	return fmt.Sprintf("%v", x), true
}

func toDataType(x any, dt DataTypes) (any, bool) {
	switch dt {
	case DTfloat:
		return toFloat(x)
	case DTint:
		return toInt(x)
	case DTstring:
		return toString(x)
	}

	return nil, false
}

// bestType returns the narrowest type that every non-blank entry of xs converts to. A numeric
// column with blanks is promoted to DTfloat so that the blanks can be held as NaN.
func bestType(xs []string) DataTypes {
	allInt, allFloat, blanks, filled := true, true, false, false

	for _, x := range xs {
		if cleanNumber(x) == "" {
			blanks = true
			continue
		}

		filled = true
		if _, ok := toInt(x); !ok {
			allInt = false
		}

		if f, ok := toFloat(x); !ok || math.IsNaN(f) {
			allFloat = false
		}

		if !allInt && !allFloat {
			return DTstring
		}
	}

	switch {
	case !filled:
		return DTstring
	case allInt && !blanks:
		return DTint
	case allFloat:
		return DTfloat
	}

	return DTstring
}

func WhatAmI(val any) DataTypes {
	switch val.(type) {
	case float64, []float64:
		return DTfloat
	case int, []int:
		return DTint
	case string, []string:
		return DTstring
	default:
		return DTunknown
	}
}

// toSlc converts xIn, a slice or a single value, into a slice of type target.
func toSlc(xIn any, target DataTypes) (any, bool) {
	x := reflect.ValueOf(xIn)
	if !x.IsValid() {
		return nil, false
	}

	if x.Kind() != reflect.Slice {
		x = reflect.ValueOf([]any{xIn})
	}

	switch target {
	case DTfloat:
		if f, ok := xIn.([]float64); ok {
			return f, true
		}

		out := make([]float64, x.Len())
		for ind := 0; ind < x.Len(); ind++ {
			var ok bool
			if out[ind], ok = toFloat(x.Index(ind).Interface()); !ok {
				return nil, false
			}
		}

		return out, true
	case DTint:
		if i, ok := xIn.([]int); ok {
			return i, true
		}

		out := make([]int, x.Len())
		for ind := 0; ind < x.Len(); ind++ {
			var ok bool
			if out[ind], ok = toInt(x.Index(ind).Interface()); !ok {
				return nil, false
			}
		}

		return out, true
	case DTstring:
		if s, ok := xIn.([]string); ok {
			return s, true
		}

		out := make([]string, x.Len())
		for ind := 0; ind < x.Len(); ind++ {
			var ok bool
			if out[ind], ok = toString(x.Index(ind).Interface()); !ok {
				return nil, false
			}
		}

		return out, true
	}

	return nil, false
}

// cleanNumber strips the decoration found in published spreadsheets: surrounding space,
// a leading currency sign and thousands separators.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")

	return strings.ReplaceAll(s, ",", "")
}
