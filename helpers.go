package transit

import (
	"fmt"
	"math"
	"strings"
)

// *********** Other ***********

func has[C comparable](needle C, haystack []C) bool {
	return position(needle, haystack) >= 0
}

func position[C comparable](needle C, haystack []C) int {
	for ind, straw := range haystack {
		if needle == straw {
			return ind
		}
	}

	return -1
}

func validName(name string) bool {
	const illegal = "!@#$%^&*()=+-;:'`/.,>< ~" + `"`

	return name != "" && !strings.ContainsAny(name, illegal)
}

// *********** Printing ***********

// PrettyPrint lays out cols side by side under header. Each element of cols is a []float64,
// []int or []string and all have the same length.
func PrettyPrint(header []string, cols ...any) string {
	return prettyPrint(header, cols...)
}

func prettyPrint(header []string, cols ...any) string {
	var colsS [][]string

	for ind := 0; ind < len(cols); ind++ {
		colsS = append(colsS, stringSlice(header[ind], cols[ind]))
	}

	if colsS == nil {
		return ""
	}

	out := ""
	for row := 0; row < len(colsS[0]); row++ {
		for c := 0; c < len(colsS); c++ {
			out += colsS[c][row]
		}
		out = strings.TrimRight(out, " ") + "\n"
	}

	return out
}

func stringSlice(header string, inVal any) []string {
	const pad = 3
	c := []string{header}

	format := ""
	n := 0
	var dt DataTypes
	switch x := inVal.(type) {
	case []float64:
		format = selectFormat(x)
		n = len(x)
		dt = DTfloat
	case []int:
		format = "%d"
		n = len(x)
		dt = DTint
	case []string:
		format = "%s"
		n = len(x)
		dt = DTstring
	default:
		panic(fmt.Errorf("unsupported data type"))
	}

	maxLen := len(header)
	for ind := 0; ind < n; ind++ {
		var el string
		switch x := inVal.(type) {
		case []float64:
			el = fmt.Sprintf(format, x[ind])
		case []int:
			el = fmt.Sprintf(format, x[ind])
		case []string:
			el = x[ind]
		}

		if l := len(el); l > maxLen {
			maxLen = l
		}

		c = append(c, el)
	}

	for ind, cx := range c {
		padded := cx + strings.Repeat(" ", maxLen-len(cx)+pad)
		if dt == DTint || dt == DTfloat {
			padded = strings.Repeat(" ", maxLen-len(cx)+pad) + cx
		}
		c[ind] = padded
	}

	return c
}

// selectFormat picks the number of decimals from the spread of x.
func selectFormat(x []float64) string {
	var minX, maxX float64
	first := true
	for _, xv := range x {
		if math.IsNaN(xv) || math.IsInf(xv, 0) {
			continue
		}

		xva := math.Abs(xv)
		if first {
			minX, maxX, first = xva, xva, false
			continue
		}

		minX = math.Min(minX, xva)
		maxX = math.Max(maxX, xva)
	}

	if first {
		return "%.2f"
	}

	rangeX := maxX - minX
	if rangeX == 0 {
		rangeX = maxX
	}

	l := math.Log10(rangeX)
	var dp int
	switch {
	case rangeX == 0:
		dp = 2
	case l < -1:
		dp = int(math.Abs(l)+0.5) + 1
	case l > 1:
		dp = 2
	default:
		dp = 3
	}

	return "%." + fmt.Sprintf("%d", dp) + "f"
}
