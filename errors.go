package transit

import (
	"fmt"
	"strings"
)

// FormatError reports input that cannot be read as a rectangular table.
type FormatError struct {
	Source string // file name or query
	Line   int    // 1-based line in Source, 0 if not applicable
	Column string
	Msg    string
}

func (e *FormatError) Error() string {
	var where []string
	if e.Source != "" {
		where = append(where, e.Source)
	}

	if e.Line > 0 {
		where = append(where, fmt.Sprintf("line %d", e.Line))
	}

	if e.Column != "" {
		where = append(where, fmt.Sprintf("column %s", e.Column))
	}

	if where == nil {
		return "format error: " + e.Msg
	}

	return fmt.Sprintf("format error (%s): %s", strings.Join(where, ", "), e.Msg)
}

// JoinError reports a join whose key does not identify rows uniquely, or is missing.
type JoinError struct {
	Keys []string
	Side string // "left" or "right"
	Key  string // offending key tuple, empty if a key column is missing
	Msg  string
}

func (e *JoinError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("join error on (%s), %s table: %s", strings.Join(e.Keys, ", "), e.Side, e.Msg)
	}

	return fmt.Sprintf("join error on (%s): key (%s) %s in %s table",
		strings.Join(e.Keys, ", "), e.Key, e.Msg, e.Side)
}

// DivisionByZeroError reports a zero denominator. Row is -1 when the denominator is a total.
type DivisionByZeroError struct {
	Column string
	Row    int
}

func (e *DivisionByZeroError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("division by zero: column %s sums to zero", e.Column)
	}

	return fmt.Sprintf("division by zero: column %s is zero at row %d", e.Column, e.Row)
}

// InsufficientDataError reports a statistic that is undefined for its input.
type InsufficientDataError struct {
	Op   string
	Rows int
	Msg  string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s (%d rows): %s", e.Op, e.Rows, e.Msg)
}

// SingularMatrixError reports a regression that has no unique solution.
type SingularMatrixError struct {
	Rows   int
	Params int
	Msg    string
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular regression (%d rows, %d parameters): %s", e.Rows, e.Params, e.Msg)
}
