package excel

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Kind is the stored type of a cell value.
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
	KindError
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindError:
		return "error"
	case KindFormula:
		return "formula"
	default:
		return "unknown"
	}
}

// Value is a literal stored cell value. Str holds the text of strings,
// error codes and formulas.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

func Empty() Value { return Value{} }
func String(s string) Value { return Value{Kind: KindString, Str: s} }
func Number(n float64) Value { return Value{Kind: KindNumber, Num: n} }
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }
func Formula(expr string) Value { return Value{Kind: KindFormula, Str: expr} }
func ErrorValue(code string) Value { return Value{Kind: KindError, Str: code} }

func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty
}

// Equal reports whether two values are the same kind and hold the same datum.
// Booleans also equal the numbers 1 and 0.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		if n, ok := v.boolNumber(o); ok {
			return n
		}
		return false
	}
	switch v.Kind {
	case KindEmpty:
		return true
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindDate:
		return v.Time.Equal(o.Time)
	default:
		return v.Str == o.Str
	}
}

// boolNumber compares a bool against a number, reporting ok=false for any
// other pair of kinds.
func (v Value) boolNumber(o Value) (equal, ok bool) {
	b, n := v, o
	if b.Kind == KindNumber {
		b, n = n, b
	}
	if b.Kind != KindBool || n.Kind != KindNumber {
		return false, false
	}
	if b.Bool {
		return n.Num == 1, true
	}
	return n.Num == 0, true
}

// Native returns the value in the form excelize's SetCellValue expects.
func (v Value) Native() any {
	switch v.Kind {
	case KindString, KindError:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return v.Time.Format(time.RFC3339)
	case KindFormula:
		return "=" + v.Str
	default:
		return v.Str
	}
}

// decodeValue builds a Value from what excelize reports for a cell: the cell
// type, the raw (unformatted) value and the formula text, if any.
func decodeValue(cellType excelize.CellType, raw, formula string) Value {
	if formula != "" {
		return Formula(formula)
	}
	if raw == "" {
		return Empty()
	}

	switch cellType {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return String(raw)
	case excelize.CellTypeError:
		return ErrorValue(raw)
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t)
			}
		}
		return String(raw)
	default:
		// Numbers are usually written without a type attribute.
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return Number(n)
		}
		return String(raw)
	}
}
