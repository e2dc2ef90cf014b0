package transit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *Table {
	id, _ := NewCol([]int{1, 2, 3, 4, 5, 6}, DTint, ColName("agency_id"))
	mode, _ := NewCol([]string{"RB", "RB", "MB", "RB", "HR", "RB"}, DTstring, ColName("mode"))
	status, _ := NewCol([]string{"Active", "Inactive", "Active", "Active", "Active", "Active"}, DTstring, ColName("status"))
	vrh, _ := NewCol([]float64{100, 200, 300, 400, 500, 600}, DTfloat, ColName("vrh"))
	opex, _ := NewCol([]float64{15000, 30000, 36000, 70000, 110000, 90000}, DTfloat, ColName("opex"))

	t, e := NewTable(id, mode, status, vrh, opex)
	if e != nil {
		panic(e)
	}

	return t
}

func floatsOf(t *Table, colName string) []float64 {
	x, e := t.Column(colName).AsFloat()
	if e != nil {
		panic(e)
	}

	return x
}

func TestNewTable(t *testing.T) {
	x, _ := NewCol([]float64{1, 2}, DTfloat, ColName("x"))
	y, _ := NewCol([]float64{1, 2, 3}, DTfloat, ColName("y"))
	xx, _ := NewCol([]int{1, 2}, DTint, ColName("x"))
	noName, _ := NewCol([]int{1, 2}, DTint)

	_, e := NewTable()
	assert.NotNil(t, e)

	_, e = NewTable(x, y)
	assert.NotNil(t, e)

	_, e = NewTable(x, xx)
	assert.NotNil(t, e)

	_, e = NewTable(x, noName)
	assert.NotNil(t, e)

	tab, e := NewTable(x)
	assert.Nil(t, e)
	assert.Equal(t, 2, tab.RowCount())
	assert.Equal(t, 1, tab.ColumnCount())
}

func TestTable_Columns(t *testing.T) {
	tab := testTable()
	assert.Equal(t, []string{"agency_id", "mode", "status", "vrh", "opex"}, tab.ColumnNames())
	assert.Equal(t, []DataTypes{DTint, DTstring, DTstring, DTfloat, DTfloat}, tab.ColumnTypes())
	assert.Nil(t, tab.Column("nope"))
	assert.NotNil(t, tab.HasColumns("vrh", "nope"))

	n := 0
	for c := tab.Next(true); c != nil; c = tab.Next(false) {
		n++
	}
	assert.Equal(t, tab.ColumnCount(), n)

	kept, e := tab.KeepColumns("opex", "mode")
	require.Nil(t, e)
	assert.Equal(t, []string{"opex", "mode"}, kept.ColumnNames())

	_, e = tab.KeepColumns("nope")
	assert.NotNil(t, e)
}

func TestTable_AppendDrop(t *testing.T) {
	tab := testTable()

	z, _ := NewCol([]int{0, 0, 0, 0, 0, 0}, DTint, ColName("vrh"))
	assert.NotNil(t, tab.AppendColumn(z, false))
	assert.Nil(t, tab.AppendColumn(z, true))
	assert.Equal(t, DTint, tab.Column("vrh").DataType())
	assert.Equal(t, "vrh", tab.ColumnNames()[tab.ColumnCount()-1])

	short, _ := NewCol([]int{0}, DTint, ColName("short"))
	assert.NotNil(t, tab.AppendColumn(short, false))

	assert.Nil(t, tab.DropColumns("agency_id", "opex"))
	assert.Equal(t, []string{"mode", "status", "vrh"}, tab.ColumnNames())
	assert.NotNil(t, tab.DropColumns("agency_id"))
}

func TestTable_CopyIsDeep(t *testing.T) {
	tab := testTable()
	cp := tab.Copy()
	_ = cp.Column("vrh").SetFloat(-1, 0)

	assert.Equal(t, 100.0, floatsOf(tab, "vrh")[0])
	assert.Equal(t, -1.0, floatsOf(cp, "vrh")[0])
}

func TestTable_Rename(t *testing.T) {
	tab := testTable()
	out, e := tab.Rename("vrh", "hours")
	require.Nil(t, e)
	assert.NotNil(t, out.Column("hours"))
	assert.NotNil(t, tab.Column("vrh"))

	_, e = tab.Rename("vrh", "opex")
	assert.NotNil(t, e)

	_, e = tab.Rename("vrh", "bad name")
	assert.NotNil(t, e)
}

func TestTable_Sort(t *testing.T) {
	tab := testTable()

	asc, e := tab.Sort(true, "mode", "opex")
	require.Nil(t, e)
	assert.Equal(t, []string{"HR", "MB", "RB", "RB", "RB", "RB"}, asc.Column("mode").AsString())
	assert.Equal(t, []float64{110000, 36000, 15000, 30000, 70000, 90000}, floatsOf(asc, "opex"))

	desc, e := tab.Sort(false, "opex")
	require.Nil(t, e)
	assert.Equal(t, []float64{110000, 90000, 70000, 36000, 30000, 15000}, floatsOf(desc, "opex"))

	// input unchanged
	assert.Equal(t, []float64{100, 200, 300, 400, 500, 600}, floatsOf(tab, "vrh"))

	_, e = tab.Sort(true, "nope")
	assert.NotNil(t, e)
}

func TestCol_String(t *testing.T) {
	x, _ := NewCol([]float64{1, 2, 3, math.NaN()}, DTfloat, ColName("x"))
	s := x.String()
	assert.Contains(t, s, "column: x")
	assert.Contains(t, s, "median")
	assert.Contains(t, s, "missing")

	m, _ := NewCol([]string{"RB", "HR", "RB"}, DTstring, ColName("mode"))
	levels, counts := m.counts()
	if d := cmp.Diff([]string{"RB", "HR"}, levels); d != "" {
		t.Errorf("levels (-want +got):\n%s", d)
	}
	assert.Equal(t, []int{2, 1}, counts)
}

func TestTable_String(t *testing.T) {
	s := testTable().String()
	assert.Contains(t, s, "agency_id")
	assert.Contains(t, s, "Inactive")

	d := testTable().Describe()
	assert.Contains(t, d, "column: opex")
	assert.Contains(t, d, "column: mode")
}
