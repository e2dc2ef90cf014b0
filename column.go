package transit

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Col is a named Vector.
type Col struct {
	*Vector

	*ColCore
}

// CC interface defines the methods of ColCore
type CC interface {
	Core() *ColCore
	Name() string
}

// *********** ColCore ***********

// ColCore holds the metadata of a column.
type ColCore struct {
	name string
}

type ColOpt func(c CC) error

func ColName(name string) ColOpt {
	return func(c CC) error {
		if c == nil {
			return fmt.Errorf("nil column to ColName")
		}

		if c.Name() != "" {
			return fmt.Errorf("column already named -- use Rename method")
		}

		if !validName(name) {
			return fmt.Errorf("invalid column name: %q", name)
		}

		c.Core().name = name

		return nil
	}
}

// Core returns itself so that Col exposes the ColCore setters.
func (c *ColCore) Core() *ColCore {
	return c
}

func (c *ColCore) Name() string {
	return c.name
}

func (c *ColCore) Rename(newName string) error {
	if !validName(newName) {
		return fmt.Errorf("invalid column name: %q", newName)
	}

	c.name = newName

	return nil
}

// ***************** Col - Create *****************

// NewCol creates a column from data, which is either a *Vector or a slice that converts to dt.
func NewCol(data any, dt DataTypes, opts ...ColOpt) (*Col, error) {
	var v *Vector
	if vx, ok := data.(*Vector); ok {
		v = vx
	}

	if v == nil {
		var e error
		if v, e = NewVector(data, dt); e != nil {
			return nil, e
		}
	}

	col := &Col{
		Vector:  v,
		ColCore: &ColCore{},
	}

	for _, opt := range opts {
		if e := opt(col); e != nil {
			return nil, e
		}
	}

	return col, nil
}

// ***************** Col - Methods *****************

func (c *Col) DataType() DataTypes {
	return c.VectorType()
}

func (c *Col) Copy() *Col {
	return &Col{
		Vector:  c.Vector.Copy(),
		ColCore: &ColCore{name: c.name},
	}
}

// rows returns a copy of c restricted to indices.
func (c *Col) rows(indices []int) *Col {
	return &Col{
		Vector:  c.Vector.Rows(indices),
		ColCore: &ColCore{name: c.name},
	}
}

// String summarizes the column. Numeric columns get quantiles, string columns get counts.
func (c *Col) String() string {
	name := c.Name()
	if name == "" {
		name = "unnamed"
	}

	t := fmt.Sprintf("column: %s\ntype: %s\n", name, c.DataType())

	if !c.DataType().IsNumeric() {
		levels, counts := c.counts()
		header := []string{name, "count"}
		return t + prettyPrint(header, levels, counts)
	}

	f, _ := c.AsFloat()
	var x []float64
	for _, xv := range f {
		if !math.IsNaN(xv) {
			x = append(x, xv)
		}
	}

	if len(x) == 0 {
		return t + "no data\n"
	}

	sort.Float64s(x)
	minx := x[0]
	maxx := x[len(x)-1]
	q25 := stat.Quantile(0.25, stat.Empirical, x, nil)
	q50 := stat.Quantile(0.5, stat.Empirical, x, nil)
	q75 := stat.Quantile(0.75, stat.Empirical, x, nil)
	xbar := stat.Mean(x, nil)
	n := float64(len(x))
	missing := float64(c.Len() - len(x))
	cats := []string{"min", "lq", "median", "mean", "uq", "max", "n", "missing"}
	vals := []float64{minx, q25, q50, xbar, q75, maxx, n, missing}
	header := []string{"metric", "value"}

	return t + prettyPrint(header, cats, vals)
}

// counts tabulates the distinct values of c, most frequent first.
func (c *Col) counts() (levels []string, counts []int) {
	tab := make(map[string]int)
	for _, s := range c.AsString() {
		if _, ok := tab[s]; !ok {
			levels = append(levels, s)
		}
		tab[s]++
	}

	sort.SliceStable(levels, func(i, j int) bool { return tab[levels[i]] > tab[levels[j]] })
	for _, l := range levels {
		counts = append(counts, tab[l])
	}

	return levels, counts
}
