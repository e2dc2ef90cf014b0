package transit

import (
	"fmt"
	"sort"
	"strings"
)

// Table is a set of equal-length, uniquely named columns. Operations that transform a Table
// return a new Table; the receiver is left unchanged.
type Table struct {
	head    *columnList
	current *columnList
}

type columnList struct {
	col *Col

	prior *columnList
	next  *columnList
}

func NewTable(cols ...*Col) (*Table, error) {
	if cols == nil {
		return nil, fmt.Errorf("no columns in NewTable")
	}

	var (
		head, priorNode *columnList
		names           []string
	)
	for ind := 0; ind < len(cols); ind++ {
		if cols[ind] == nil {
			return nil, fmt.Errorf("nil column in NewTable")
		}

		nm := cols[ind].Name()
		if nm == "" {
			return nil, fmt.Errorf("column with no name in NewTable")
		}

		if has(nm, names) {
			return nil, fmt.Errorf("duplicate column name: %s", nm)
		}
		names = append(names, nm)

		if cols[ind].Len() != cols[0].Len() {
			return nil, fmt.Errorf("length mismatch: column %s has %d rows, column %s has %d",
				cols[0].Name(), cols[0].Len(), nm, cols[ind].Len())
		}

		node := &columnList{
			col: cols[ind],

			prior: priorNode,
			next:  nil,
		}

		if priorNode != nil {
			priorNode.next = node
		}

		priorNode = node

		if ind == 0 {
			head = node
		}
	}

	return &Table{head: head}, nil
}

// ***************** Methods *****************

// Next iterates through the columns. Next(true) returns the first column.
func (t *Table) Next(reset bool) *Col {
	if reset || t.current == nil {
		t.current = t.head
		return t.current.col
	}

	if t.current.next == nil {
		t.current = nil
		return nil
	}

	t.current = t.current.next
	return t.current.col
}

func (t *Table) RowCount() int {
	return t.head.col.Len()
}

func (t *Table) ColumnCount() int {
	cols := 0
	for c := t.head; c != nil; c = c.next {
		cols++
	}

	return cols
}

func (t *Table) ColumnNames() []string {
	var names []string

	for h := t.head; h != nil; h = h.next {
		names = append(names, h.col.Name())
	}

	return names
}

func (t *Table) ColumnTypes() []DataTypes {
	var dts []DataTypes

	for h := t.head; h != nil; h = h.next {
		dts = append(dts, h.col.DataType())
	}

	return dts
}

// Column returns the column colName, nil if there is no such column.
func (t *Table) Column(colName string) *Col {
	if node := t.node(colName); node != nil {
		return node.col
	}

	return nil
}

// HasColumns returns an error naming the first of colNames not in t.
func (t *Table) HasColumns(colNames ...string) error {
	for _, cn := range colNames {
		if t.Column(cn) == nil {
			return fmt.Errorf("column %s not found", cn)
		}
	}

	return nil
}

// AppendColumn adds col to the end of t. If replace is true, an existing column of the same
// name is dropped first.
func (t *Table) AppendColumn(col *Col, replace bool) error {
	if col.Name() == "" {
		return fmt.Errorf("column with no name in AppendColumn")
	}

	if has(col.Name(), t.ColumnNames()) {
		if !replace {
			return fmt.Errorf("duplicate column name: %s", col.Name())
		}

		if e := t.DropColumns(col.Name()); e != nil {
			return e
		}
	}

	if col.Len() != t.RowCount() {
		return fmt.Errorf("length mismatch: table - %d, append col - %d", t.RowCount(), col.Len())
	}

	var tail *columnList
	for tail = t.head; tail.next != nil; tail = tail.next {
	}

	tail.next = &columnList{
		col:   col,
		prior: tail,
		next:  nil,
	}

	return nil
}

func (t *Table) node(colName string) *columnList {
	for h := t.head; h != nil; h = h.next {
		if h.col.Name() == colName {
			return h
		}
	}

	return nil
}

func (t *Table) DropColumns(colNames ...string) error {
	for _, cName := range colNames {
		var node *columnList

		if node = t.node(cName); node == nil {
			return fmt.Errorf("column %s not found", cName)
		}

		if node == t.head {
			if t.head.next == nil {
				return fmt.Errorf("no columns left")
			}

			t.head = t.head.next
			t.head.prior = nil
			continue
		}

		node.prior.next = node.next
		if node.next != nil {
			node.next.prior = node.prior
		}
	}

	t.current = nil

	return nil
}

// KeepColumns returns a new Table with copies of colNames, in that order.
func (t *Table) KeepColumns(colNames ...string) (*Table, error) {
	var cols []*Col

	for _, cn := range colNames {
		var col *Col
		if col = t.Column(cn); col == nil {
			return nil, fmt.Errorf("column %s not found", cn)
		}

		cols = append(cols, col.Copy())
	}

	return NewTable(cols...)
}

// Copy returns a deep copy of t.
func (t *Table) Copy() *Table {
	return t.rows(nil)
}

// Rename returns a copy of t with column oldName called newName.
func (t *Table) Rename(oldName, newName string) (*Table, error) {
	if t.Column(newName) != nil {
		return nil, fmt.Errorf("column %s already exists, cannot Rename", newName)
	}

	out := t.Copy()
	var col *Col
	if col = out.Column(oldName); col == nil {
		return nil, fmt.Errorf("column %s not found", oldName)
	}

	if e := col.Rename(newName); e != nil {
		return nil, e
	}

	return out, nil
}

// rows returns a new Table with the rows in indices. nil indices copies every row.
func (t *Table) rows(indices []int) *Table {
	var cols []*Col
	for h := t.head; h != nil; h = h.next {
		cols = append(cols, h.col.rows(indices))
	}

	// cannot fail: names and lengths already validated
	out, _ := NewTable(cols...)

	return out
}

// Sort returns a copy of t sorted on keys. Ties keep their original order.
func (t *Table) Sort(ascending bool, keys ...string) (*Table, error) {
	var by []*Col

	for _, k := range keys {
		var col *Col
		if col = t.Column(k); col == nil {
			return nil, fmt.Errorf("column %s not found", k)
		}

		by = append(by, col)
	}

	indices := make([]int, t.RowCount())
	for ind := range indices {
		indices[ind] = ind
	}

	sort.SliceStable(indices, func(i, j int) bool {
		for _, col := range by {
			a, b := indices[i], indices[j]
			if !ascending {
				a, b = b, a
			}

			if col.Less(a, b) {
				return true
			}

			if col.Less(b, a) {
				return false
			}
		}

		return false
	})

	return t.rows(indices), nil
}

// String renders t as a fixed-width text table.
func (t *Table) String() string {
	var (
		header []string
		cols   []any
	)

	for h := t.head; h != nil; h = h.next {
		header = append(header, h.col.Name())
		cols = append(cols, h.col.AsAny())
	}

	return prettyPrint(header, cols...)
}

// Describe summarizes each column of t, see Col.String.
func (t *Table) Describe() string {
	var s []string
	for h := t.head; h != nil; h = h.next {
		s = append(s, h.col.String())
	}

	return strings.Join(s, "\n")
}

const keySep = "\x1f"

// rowKey joins the string form of the key columns at row indx.
func rowKey(cols []*Col, indx int) string {
	parts := make([]string, len(cols))
	for ind, c := range cols {
		parts[ind] = c.ElementString(indx)
	}

	return strings.Join(parts, keySep)
}

func displayKey(key string) string {
	return strings.ReplaceAll(key, keySep, ", ")
}
