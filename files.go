package transit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// All code interacting with files is here

const (
	Sep    = ','
	Header = true
)

// Files reads delimited text into a Table.
type Files struct {
	FieldNames []string
	FieldTypes map[string]DataTypes
	Sep        rune
	Header     bool
}

type FileOpt func(f *Files) error

func NewFiles(opts ...FileOpt) (*Files, error) {
	f := &Files{
		Sep:        Sep,
		Header:     Header,
		FieldTypes: make(map[string]DataTypes),
	}

	for _, opt := range opts {
		if e := opt(f); e != nil {
			return nil, e
		}
	}

	return f, nil
}

// *********** Setters ***********

// FileFieldNames supplies the column names of a file without a header row.
func FileFieldNames(names []string) FileOpt {
	return func(f *Files) error {
		for _, nm := range names {
			if !validName(nm) {
				return fmt.Errorf("invalid field name: %q", nm)
			}
		}

		f.FieldNames = names

		return nil
	}
}

// FileFieldTypes forces the type of the named fields; other fields are inferred.
func FileFieldTypes(types map[string]DataTypes) FileOpt {
	return func(f *Files) error {
		for nm, dt := range types {
			if dt == DTunknown {
				return fmt.Errorf("field %s cannot be forced to %s", nm, dt)
			}

			f.FieldTypes[nm] = dt
		}

		return nil
	}
}

func FileSep(sep rune) FileOpt {
	return func(f *Files) error {
		f.Sep = sep
		return nil
	}
}

func FileHeader(header bool) FileOpt {
	return func(f *Files) error {
		f.Header = header
		return nil
	}
}

// *********** Load ***********

// Load reads fileName. Any problem with its shape or contents is a *FormatError.
func (f *Files) Load(fileName string) (*Table, error) {
	var (
		file *os.File
		e    error
	)
	if file, e = os.Open(fileName); e != nil {
		return nil, e
	}
	defer func() { _ = file.Close() }()

	return f.Read(file, fileName)
}

// Read reads a table from rdr. source names rdr in error messages.
func (f *Files) Read(rdr io.Reader, source string) (*Table, error) {
	r := csv.NewReader(rdr)
	r.Comma = f.Sep
	r.TrimLeadingSpace = true

	var (
		records [][]string
		e       error
	)
	if records, e = r.ReadAll(); e != nil {
		var pe *csv.ParseError
		if errors.As(e, &pe) {
			return nil, &FormatError{Source: source, Line: pe.Line, Msg: pe.Err.Error()}
		}

		return nil, &FormatError{Source: source, Msg: e.Error()}
	}

	names := f.FieldNames
	firstLine := 1
	if f.Header {
		if len(records) == 0 {
			return nil, &FormatError{Source: source, Msg: "missing header"}
		}

		names = make([]string, len(records[0]))
		for ind, nm := range records[0] {
			names[ind] = strings.TrimSpace(strings.TrimPrefix(nm, "\ufeff"))
		}

		records = records[1:]
		firstLine = 2
	}

	if e := checkNames(names, source); e != nil {
		return nil, e
	}

	// csv.Reader enforces equal field counts among records, not against FieldNames
	if len(records) > 0 && len(records[0]) != len(names) {
		return nil, &FormatError{Source: source, Line: firstLine,
			Msg: fmt.Sprintf("row has %d fields, header has %d", len(records[0]), len(names))}
	}

	var cols []*Col
	for c, nm := range names {
		raw := make([]string, len(records))
		for rw, rec := range records {
			raw[rw] = rec[c]
		}

		dt, forced := f.FieldTypes[nm]
		if !forced {
			dt = bestType(raw)
		}

		var col *Col
		if col, e = parseColumn(nm, raw, dt, source, firstLine); e != nil {
			return nil, e
		}

		cols = append(cols, col)
	}

	return NewTable(cols...)
}

func checkNames(names []string, source string) error {
	if len(names) == 0 {
		return &FormatError{Source: source, Msg: "missing header"}
	}

	for ind, nm := range names {
		if nm == "" {
			return &FormatError{Source: source, Msg: fmt.Sprintf("field %d has no name", ind+1)}
		}

		if !validName(nm) {
			return &FormatError{Source: source, Column: nm, Msg: "invalid field name"}
		}

		if position(nm, names) != ind {
			return &FormatError{Source: source, Column: nm, Msg: "duplicate field name"}
		}
	}

	return nil
}

// parseColumn converts raw to type dt. Blank entries of DTfloat columns become NaN.
func parseColumn(name string, raw []string, dt DataTypes, source string, firstLine int) (*Col, error) {
	v := MakeVector(dt, len(raw))
	for ind, x := range raw {
		var e error
		switch dt {
		case DTstring:
			e = v.SetString(strings.TrimSpace(x), ind)
		case DTfloat:
			f, ok := toFloat(x)
			if !ok {
				return nil, &FormatError{Source: source, Line: firstLine + ind, Column: name,
					Msg: fmt.Sprintf("cannot parse %q as a number", x)}
			}
			e = v.SetFloat(f, ind)
		case DTint:
			i, ok := toInt(x)
			if !ok {
				return nil, &FormatError{Source: source, Line: firstLine + ind, Column: name,
					Msg: fmt.Sprintf("cannot parse %q as an integer", x)}
			}
			e = v.SetInt(i, ind)
		}

		if e != nil {
			return nil, e
		}
	}

	return NewCol(v, dt, ColName(name))
}
