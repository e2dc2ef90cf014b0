package transit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Direction selects whether Inflate moves a value forward or backward in time.
type Direction int

const (
	// Forward compounds a base-year value into a later year: value * (1+rate)^years.
	Forward Direction = 1 + iota
	// Backward discounts a later-year value to the base year: value / (1+rate)^years.
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Sum returns the total of colName.
func (t *Table) Sum(colName string) (float64, error) {
	var (
		x []float64
		e error
	)
	if x, e = t.floats(colName); e != nil {
		return 0, e
	}

	return floats.Sum(x), nil
}

// WeightedAverage returns sum(numerator)/sum(denominator) over all rows. This weights each row
// by its denominator, so large operators count for more than small ones, matching how national
// averages are computed.
func (t *Table) WeightedAverage(numerator, denominator string) (float64, error) {
	var (
		x, y []float64
		e    error
	)
	if x, e = t.floats(numerator); e != nil {
		return 0, e
	}

	if y, e = t.floats(denominator); e != nil {
		return 0, e
	}

	if len(x) == 0 {
		return 0, &InsufficientDataError{Op: "weighted average", Rows: 0, Msg: "no rows"}
	}

	den := floats.Sum(y)
	if den == 0 {
		return 0, &DivisionByZeroError{Column: denominator, Row: -1}
	}

	return floats.Sum(x) / den, nil
}

// CoefficientOfVariation returns the sample standard deviation of colName divided by its mean.
func (t *Table) CoefficientOfVariation(colName string) (float64, error) {
	var (
		x []float64
		e error
	)
	if x, e = t.floats(colName); e != nil {
		return 0, e
	}

	if len(x) < 2 {
		return 0, &InsufficientDataError{Op: "coefficient of variation", Rows: len(x), Msg: "need at least 2 rows"}
	}

	mean, std := stat.MeanStdDev(x, nil)
	if mean == 0 {
		return 0, &InsufficientDataError{Op: "coefficient of variation", Rows: len(x), Msg: "mean is zero"}
	}

	return std / mean, nil
}

// Inflate moves value across years at a constant annual rate. The direction is never inferred.
func Inflate(value, rate, years float64, dir Direction) (float64, error) {
	if rate <= -1 {
		return 0, fmt.Errorf("inflation rate must exceed -1, got %v", rate)
	}

	if years < 0 || math.IsNaN(years) {
		return 0, fmt.Errorf("years must be non-negative, got %v", years)
	}

	factor := math.Pow(1+rate, years)
	switch dir {
	case Forward:
		return value * factor, nil
	case Backward:
		return value / factor, nil
	}

	return 0, fmt.Errorf("unknown inflation direction: %s", dir)
}
