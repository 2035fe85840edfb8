package domain

import (
	"strconv"
	"strings"
)

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueNumber
)

// Value is a single raw cell. Readers produce strings, JSON bodies may produce numbers.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

func Absent() Value { return Value{Kind: ValueAbsent} }
func String(s string) Value { return Value{Kind: ValueString, Str: s} }
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// Cell classifies a raw text cell: empty or whitespace-only text is absent.
func Cell(s string) Value {
	if strings.TrimSpace(s) == "" {
		return Absent()
	}
	return String(s)
}

// IsBlank reports whether the value is absent or whitespace-only text.
func (v Value) IsBlank() bool {
	switch v.Kind {
	case ValueString:
		return strings.TrimSpace(v.Str) == ""
	case ValueNumber:
		return false
	default:
		return true
	}
}

// Text renders the value the way it appeared in the source.
func (v Value) Text() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// RawRow is one untyped input record keyed by column name.
type RawRow map[string]Value

// Get returns the value of a column, or an absent value when the column is missing.
func (r RawRow) Get(column string) Value {
	v, ok := r[column]
	if !ok {
		return Absent()
	}
	return v
}

// Table is a header plus data rows in input order.
type Table struct {
	Columns []string
	Rows    []RawRow
}

func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}
