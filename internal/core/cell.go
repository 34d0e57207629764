package core

// cell.go converts raw export fields into typed cells.
//
// GENESIS writes German-locale numbers ("1234,5") and a handful of
// placeholder tokens for suppressed or unavailable values. A field is
// classified in this order:
//   - exact match against a missing-value token
//   - a plain decimal number once the decimal separator becomes '.'
//   - anything else is kept verbatim as a string

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex accepts integers, decimals and scientific notation.
// NaN, Inf, hex floats and underscores are deliberately not numbers here.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// integerRegex matches the subset of numericRegex that fits KindInt.
var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// CellKind tags the variant held by a Cell.
type CellKind uint8

const (
	KindString CellKind = iota
	KindInt
	KindFloat
	KindMissing
)

func (k CellKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindMissing:
		return "missing"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// Cell is a single typed table value. Raw always holds the field exactly as
// it appeared in the export.
type Cell struct {
	Kind  CellKind
	Str   string
	Int   int64
	Float float64
	Raw   string
}

// StringCell returns a string cell.
func StringCell(s string) Cell { return Cell{Kind: KindString, Str: s, Raw: s} }

// IntCell returns an integer cell.
func IntCell(i int64) Cell {
	return Cell{Kind: KindInt, Int: i, Raw: strconv.FormatInt(i, 10)}
}

// FloatCell returns a fractional numeric cell.
func FloatCell(f float64) Cell {
	return Cell{Kind: KindFloat, Float: f, Raw: strconv.FormatFloat(f, 'f', -1, 64)}
}

// MissingCell returns a missing-value cell for the given sentinel token.
func MissingCell(raw string) Cell { return Cell{Kind: KindMissing, Raw: raw} }

// IsMissing reports whether the cell holds the missing-value marker.
func (c Cell) IsMissing() bool { return c.Kind == KindMissing }

// IsNumeric reports whether the cell holds an int or a float.
func (c Cell) IsNumeric() bool { return c.Kind == KindInt || c.Kind == KindFloat }

// Number returns the numeric value as float64. ok is false for strings and
// missing cells.
func (c Cell) Number() (v float64, ok bool) {
	switch c.Kind {
	case KindInt:
		return float64(c.Int), true
	case KindFloat:
		return c.Float, true
	default:
		return 0, false
	}
}

// String renders the cell with '.' as decimal point; missing cells render empty.
func (c Cell) String() string {
	switch c.Kind {
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case KindMissing:
		return ""
	default:
		return c.Str
	}
}

// Equal compares kind and value; Raw is ignored.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindInt:
		return c.Int == o.Int
	case KindFloat:
		return c.Float == o.Float
	case KindMissing:
		return true
	default:
		return c.Str == o.Str
	}
}

// MarshalJSON encodes strings as JSON strings, numbers as JSON numbers and
// missing cells as null. Integral floats keep a ".0" so they decode as floats.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindInt:
		return []byte(strconv.FormatInt(c.Int, 10)), nil
	case KindFloat:
		s := strconv.FormatFloat(c.Float, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		return []byte(s), nil
	case KindMissing:
		return []byte("null"), nil
	default:
		return json.Marshal(c.Str)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON. Raw is rebuilt from the value.
func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = MissingCell("")
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = StringCell(s)
		return nil
	}

	lit := string(data)
	if integerRegex.MatchString(lit) {
		i, err := strconv.ParseInt(lit, 10, 64)
		if err == nil {
			*c = IntCell(i)
			return nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return fmt.Errorf("cell: invalid JSON value %s", lit)
	}
	*c = FloatCell(f)
	return nil
}

// ParseCell converts one raw field using opts.
func ParseCell(raw string, opts Options) Cell {
	opts = opts.withDefaults()
	return newCellParser(opts).parse(raw)
}

// cellParser holds the per-parse lookup state so tokens are indexed once.
type cellParser struct {
	missing   map[string]struct{}
	decimal   byte
	thousands byte
}

func newCellParser(opts Options) *cellParser {
	return &cellParser{
		missing:   opts.missingSet(),
		decimal:   opts.DecimalSeparator,
		thousands: opts.ThousandsSeparator,
	}
}

func (p *cellParser) parse(raw string) Cell {
	if _, ok := p.missing[raw]; ok {
		return MissingCell(raw)
	}

	if s, ok := p.normalizeNumber(raw); ok {
		if integerRegex.MatchString(s) {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Cell{Kind: KindInt, Int: i, Raw: raw}
			}
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Cell{Kind: KindFloat, Float: f, Raw: raw}
		}
	}

	return Cell{Kind: KindString, Str: raw, Raw: raw}
}

// normalizeNumber rewrites a locale-formatted number into Go syntax and
// reports whether the result looks numeric.
func (p *cellParser) normalizeNumber(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}
	if p.thousands != 0 {
		s = strings.ReplaceAll(s, string(p.thousands), "")
	}
	if p.decimal != '.' {
		s = strings.ReplaceAll(s, string(p.decimal), ".")
	}
	return s, numericRegex.MatchString(s)
}
