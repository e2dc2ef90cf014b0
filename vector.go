package transit

import (
	"fmt"
	"math"
	"strconv"
)

// Vector is a typed slice. data is one of []float64, []int, []string.
type Vector struct {
	dt DataTypes

	data any
}

func NewVector(data any, dt DataTypes) (*Vector, error) {
	var (
		v  any
		ok bool
	)
	if v, ok = toSlc(data, dt); !ok {
		return nil, fmt.Errorf("cannot make vector of type %s", dt)
	}

	return &Vector{dt: dt, data: v}, nil
}

func MakeVector(dt DataTypes, n int) *Vector {
	switch dt {
	case DTfloat:
		return &Vector{dt: dt, data: make([]float64, n)}
	case DTint:
		return &Vector{dt: dt, data: make([]int, n)}
	case DTstring:
		return &Vector{dt: dt, data: make([]string, n)}
	default:
		panic(fmt.Errorf("cannot make Vector with data type %s", dt))
	}
}

// *********** Setters ***********

func (v *Vector) SetFloat(val float64, indx int) error {
	if v.VectorType() != DTfloat {
		return fmt.Errorf("vector isn't DTfloat")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]float64)[indx] = val

	return nil
}

func (v *Vector) SetInt(val, indx int) error {
	if v.VectorType() != DTint {
		return fmt.Errorf("vector isn't DTint")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]int)[indx] = val

	return nil
}

func (v *Vector) SetString(val string, indx int) error {
	if v.VectorType() != DTstring {
		return fmt.Errorf("vector isn't DTstring")
	}

	if indx < 0 || indx >= v.Len() {
		return fmt.Errorf("index out of range")
	}

	v.data.([]string)[indx] = val

	return nil
}

// *********** Getters ***********

func (v *Vector) VectorType() DataTypes {
	return v.dt
}

func (v *Vector) Data() *Vector {
	return v
}

func (v *Vector) AsAny() any {
	return v.data
}

func (v *Vector) Len() int {
	switch x := v.data.(type) {
	case []float64:
		return len(x)
	case []int:
		return len(x)
	case []string:
		return len(x)
	default:
		return 0
	}
}

// AsFloat returns the data as []float64. A DTfloat vector returns its own backing slice; a
// DTint vector returns a converted copy.
func (v *Vector) AsFloat() ([]float64, error) {
	switch x := v.data.(type) {
	case []float64:
		return x, nil
	case []int:
		xOut := make([]float64, len(x))
		for ind, xx := range x {
			xOut[ind] = float64(xx)
		}

		return xOut, nil
	}

	return nil, fmt.Errorf("cannot convert %s to DTfloat", v.dt)
}

func (v *Vector) AsInt() ([]int, error) {
	if x, ok := v.data.([]int); ok {
		return x, nil
	}

	return nil, fmt.Errorf("cannot convert %s to DTint", v.dt)
}

func (v *Vector) AsString() []string {
	if x, ok := v.data.([]string); ok {
		return x
	}

	xOut := make([]string, v.Len())
	for ind := 0; ind < v.Len(); ind++ {
		xOut[ind] = v.ElementString(ind)
	}

	return xOut
}

func (v *Vector) Element(indx int) any {
	if indx < 0 || indx >= v.Len() {
		panic(fmt.Errorf("index out of range"))
	}

	switch x := v.data.(type) {
	case []float64:
		return x[indx]
	case []int:
		return x[indx]
	case []string:
		return x[indx]
	}

	return nil
}

// ElementString returns the indx element formatted as a string. Floats use the shortest
// representation that round-trips.
func (v *Vector) ElementString(indx int) string {
	switch x := v.Element(indx).(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case string:
		return x
	}

	return ""
}

// IsNaN reports whether element indx is missing. Only DTfloat vectors can hold missing values.
func (v *Vector) IsNaN(indx int) bool {
	if x, ok := v.data.([]float64); ok {
		return math.IsNaN(x[indx])
	}

	return false
}

// *********** Subsetting ***********

func (v *Vector) Copy() *Vector {
	return v.Rows(nil)
}

// Rows returns a new Vector made up of the rows in indices, in that order. A nil indices
// copies every row.
func (v *Vector) Rows(indices []int) *Vector {
	if indices == nil {
		indices = make([]int, v.Len())
		for ind := range indices {
			indices[ind] = ind
		}
	}

	out := MakeVector(v.dt, len(indices))
	switch x := v.data.(type) {
	case []float64:
		for ind, r := range indices {
			out.data.([]float64)[ind] = x[r]
		}
	case []int:
		for ind, r := range indices {
			out.data.([]int)[ind] = x[r]
		}
	case []string:
		for ind, r := range indices {
			out.data.([]string)[ind] = x[r]
		}
	}

	return out
}

// Less compares elements i and j. NaN sorts last.
func (v *Vector) Less(i, j int) bool {
	switch x := v.data.(type) {
	case []float64:
		if math.IsNaN(x[i]) {
			return false
		}

		return math.IsNaN(x[j]) || x[i] < x[j]
	case []int:
		return x[i] < x[j]
	case []string:
		return x[i] < x[j]
	}

	return false
}
