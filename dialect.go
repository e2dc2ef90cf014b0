package transit

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"
)

// All code interacting with a database is here

const (
	ch = "clickhouse"
	pg = "postgres"
	sl = "sqlite"
)

// Dialect loads query results from a database into Tables.
type Dialect struct {
	db      *sql.DB
	dialect string
}

func NewDialect(dialect string, db *sql.DB) (*Dialect, error) {
	dialect = strings.ToLower(dialect)

	if !has(dialect, []string{ch, pg, sl}) {
		return nil, fmt.Errorf("unsupported database %s", dialect)
	}

	if db == nil {
		return nil, fmt.Errorf("nil database connection in NewDialect")
	}

	return &Dialect{db: db, dialect: dialect}, nil
}

// ***************** Methods *****************

func (d *Dialect) Close() error {
	return d.db.Close()
}

func (d *Dialect) DB() *sql.DB {
	return d.db
}

func (d *Dialect) DialectName() string {
	return d.dialect
}

// Load runs qry and returns the result as a Table. Column types come from the values
// returned by the driver. NULLs load as NaN in numeric columns and "" in string columns.
func (d *Dialect) Load(qry string) (*Table, error) {
	var (
		rows *sql.Rows
		e    error
	)
	if rows, e = d.db.Query(qry); e != nil {
		return nil, e
	}
	defer func() { _ = rows.Close() }()

	var names []string
	if names, e = rows.Columns(); e != nil {
		return nil, e
	}

	if e := checkNames(names, d.dialect); e != nil {
		return nil, e
	}

	row2read := make([]any, len(names))
	for ind := range row2read {
		var x any
		row2read[ind] = &x
	}

	data := make([][]any, len(names))
	for rows.Next() {
		if e := rows.Scan(row2read...); e != nil {
			return nil, e
		}

		for ind := range names {
			data[ind] = append(data[ind], *row2read[ind].(*any))
		}
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	var cols []*Col
	for ind, nm := range names {
		var col *Col
		if col, e = dbColumn(nm, data[ind]); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

// dbColumn builds a column from driver values.
func dbColumn(name string, vals []any) (*Col, error) {
	dt, nulls := DTunknown, false
	for _, val := range vals {
		if val == nil {
			nulls = true
			continue
		}

		vt := dbType(val)
		switch {
		case dt == DTunknown:
			dt = vt
		case dt == vt:
		case dt.IsNumeric() && vt.IsNumeric():
			dt = DTfloat
		default:
			dt = DTstring
		}
	}

	switch {
	case dt == DTunknown:
		dt = DTstring
	case dt == DTint && nulls:
		dt = DTfloat
	}

	v := MakeVector(dt, len(vals))
	for ind, val := range vals {
		var e error
		switch dt {
		case DTfloat:
			f := math.NaN()
			if val != nil {
				var ok bool
				if f, ok = toFloat(val); !ok {
					return nil, &FormatError{Column: name, Line: ind + 1, Msg: fmt.Sprintf("cannot convert %v to a number", val)}
				}
			}
			e = v.SetFloat(f, ind)
		case DTint:
			i, _ := toInt(val)
			e = v.SetInt(i, ind)
		case DTstring:
			e = v.SetString(dbString(val), ind)
		}

		if e != nil {
			return nil, e
		}
	}

	return NewCol(v, dt, ColName(name))
}

// dbType maps a driver value to a DataTypes.
func dbType(val any) DataTypes {
	switch x := val.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, bool:
		return DTint
	case float32, float64:
		return DTfloat
	case string:
		return DTstring
	case []byte:
		// some drivers return NUMERIC as text
		if f, ok := toFloat(string(x)); ok && !math.IsNaN(f) {
			return DTfloat
		}
		return DTstring
	case time.Time:
		return DTstring
	case fmt.Stringer:
		if f, ok := toFloat(x.String()); ok && !math.IsNaN(f) {
			return DTfloat
		}
	}

	return DTstring
}

func dbString(val any) string {
	switch x := val.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format("2006-01-02")
	}

	s, _ := toString(val)

	return s
}
