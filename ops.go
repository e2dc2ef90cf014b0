package transit

import "fmt"

// Names of the categorical columns used by FilterByModeAndStatus.
const (
	ModeCol   = "mode"
	StatusCol = "status"
)

// rightSuffix is appended to non-key columns of the right table of a Join whose names
// collide with a column of the left table.
const rightSuffix = "_right"

// ***************** Row selection *****************

// Where returns the rows of t for which keep is true.
func (t *Table) Where(keep []bool) (*Table, error) {
	if len(keep) != t.RowCount() {
		return nil, fmt.Errorf("length mismatch in Where: table - %d, selector - %d", t.RowCount(), len(keep))
	}

	indices := make([]int, 0, len(keep))
	for ind, k := range keep {
		if k {
			indices = append(indices, ind)
		}
	}

	return t.rows(indices), nil
}

// Filter returns the rows of t whose column colName equals value. value is converted to the
// type of the column; an empty result is not an error.
func (t *Table) Filter(colName string, value any) (*Table, error) {
	var col *Col
	if col = t.Column(colName); col == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	var (
		target any
		ok     bool
	)
	if target, ok = toDataType(value, col.DataType()); !ok {
		return nil, fmt.Errorf("cannot compare column %s (%s) to %v", colName, col.DataType(), value)
	}

	keep := make([]bool, t.RowCount())
	for ind := 0; ind < t.RowCount(); ind++ {
		keep[ind] = col.Element(ind) == target
	}

	return t.Where(keep)
}

// FilterByModeAndStatus keeps the rows with ModeCol == mode and StatusCol == status.
func (t *Table) FilterByModeAndStatus(mode, status string) (*Table, error) {
	var (
		byMode *Table
		e      error
	)
	if byMode, e = t.Filter(ModeCol, mode); e != nil {
		return nil, e
	}

	return byMode.Filter(StatusCol, status)
}

// DropNaN removes the rows that are missing in any of colNames. With no colNames, every
// column is checked.
func (t *Table) DropNaN(colNames ...string) (*Table, error) {
	if colNames == nil {
		colNames = t.ColumnNames()
	}

	if e := t.HasColumns(colNames...); e != nil {
		return nil, e
	}

	keep := make([]bool, t.RowCount())
	for ind := range keep {
		keep[ind] = true
		for _, cn := range colNames {
			if t.Column(cn).IsNaN(ind) {
				keep[ind] = false
				break
			}
		}
	}

	return t.Where(keep)
}

// ***************** Join *****************

// Join is an inner join of t and right on keys. The result has the columns of t followed by the
// non-key columns of right, rows in the order of t. Key tuples must be unique on each side.
// Rows with a missing (NaN) key match nothing.
func (t *Table) Join(right *Table, keys ...string) (*Table, error) {
	if len(keys) == 0 {
		return nil, &JoinError{Side: "left", Msg: "no join keys"}
	}

	var (
		rightIndex map[string]int
		leftKeys   []string
		leftNaN    []bool
		e          error
	)
	if _, leftKeys, leftNaN, e = t.keyIndex("left", keys); e != nil {
		return nil, e
	}

	if rightIndex, _, _, e = right.keyIndex("right", keys); e != nil {
		return nil, e
	}

	li, ri := make([]int, 0), make([]int, 0)
	for ind, k := range leftKeys {
		if leftNaN[ind] {
			continue
		}

		if r, ok := rightIndex[k]; ok {
			li = append(li, ind)
			ri = append(ri, r)
		}
	}

	out := t.rows(li)
	for h := right.head; h != nil; h = h.next {
		nm := h.col.Name()
		if has(nm, keys) {
			continue
		}

		col := h.col.rows(ri)
		if out.Column(nm) != nil {
			col.name = nm + rightSuffix
			if out.Column(col.name) != nil {
				return nil, &JoinError{Keys: keys, Side: "left",
					Msg: fmt.Sprintf("column %s collides with renamed right column %s", col.name, nm)}
			}
		}

		if e := out.AppendColumn(col, false); e != nil {
			return nil, e
		}
	}

	return out, nil
}

// keyIndex maps each key tuple to its row, failing if a tuple repeats. It also returns the
// tuples in row order and which rows have a NaN key. Those rows are left out of index.
func (t *Table) keyIndex(side string, keys []string) (index map[string]int, rowKeys []string, nan []bool, err error) {
	var cols []*Col
	for _, k := range keys {
		var col *Col
		if col = t.Column(k); col == nil {
			return nil, nil, nil, &JoinError{Keys: keys, Side: side, Msg: fmt.Sprintf("key column %s not found", k)}
		}

		cols = append(cols, col)
	}

	index = make(map[string]int, t.RowCount())
	rowKeys = make([]string, t.RowCount())
	nan = make([]bool, t.RowCount())
	for ind := 0; ind < t.RowCount(); ind++ {
		k := rowKey(cols, ind)
		rowKeys[ind] = k

		for _, c := range cols {
			nan[ind] = nan[ind] || c.IsNaN(ind)
		}

		if nan[ind] {
			continue
		}

		if _, dup := index[k]; dup {
			return nil, nil, nil, &JoinError{Keys: keys, Side: side, Key: displayKey(k), Msg: "duplicated"}
		}

		index[k] = ind
	}

	return index, rowKeys, nan, nil
}

// ***************** Derived columns *****************

// DeriveRatio returns a copy of t with newCol = numerator / denominator. Any zero denominator
// is a DivisionByZeroError. Missing values pass through as NaN.
func (t *Table) DeriveRatio(numerator, denominator, newCol string) (*Table, error) {
	return t.derive(numerator, denominator, newCol, func(row int, x, y float64) (float64, error) {
		if y == 0 {
			return 0, &DivisionByZeroError{Column: denominator, Row: row}
		}

		return x / y, nil
	})
}

// DeriveDifference returns a copy of t with newCol = a - b.
func (t *Table) DeriveDifference(a, b, newCol string) (*Table, error) {
	return t.derive(a, b, newCol, func(_ int, x, y float64) (float64, error) {
		return x - y, nil
	})
}

func (t *Table) derive(xName, yName, newCol string, fn func(row int, x, y float64) (float64, error)) (*Table, error) {
	if t.Column(newCol) != nil {
		return nil, fmt.Errorf("column %s already exists", newCol)
	}

	var (
		x, y []float64
		e    error
	)
	if x, e = t.floats(xName); e != nil {
		return nil, e
	}

	if y, e = t.floats(yName); e != nil {
		return nil, e
	}

	z := make([]float64, len(x))
	for ind := range x {
		if z[ind], e = fn(ind, x[ind], y[ind]); e != nil {
			return nil, e
		}
	}

	var col *Col
	if col, e = NewCol(z, DTfloat, ColName(newCol)); e != nil {
		return nil, e
	}

	out := t.Copy()
	if e := out.AppendColumn(col, false); e != nil {
		return nil, e
	}

	return out, nil
}

// floats returns colName as []float64, failing if it is missing or not numeric.
func (t *Table) floats(colName string) ([]float64, error) {
	var col *Col
	if col = t.Column(colName); col == nil {
		return nil, fmt.Errorf("column %s not found", colName)
	}

	if !col.DataType().IsNumeric() {
		return nil, fmt.Errorf("column %s is %s, need a numeric column", colName, col.DataType())
	}

	return col.AsFloat()
}
