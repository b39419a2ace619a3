package domain

import (
	"math"
	"strconv"
	"strings"
)

// Value is a sealed interface over the three cell value kinds the preview
// pipeline understands. Only Text, Number, and Null implement it. A nil Value
// (missed map lookup) is treated as null by every helper.
type Value interface {
	cellValue() // sealed
}

// Text is a string cell value.
type Text string

func (Text) cellValue() {}

// Number is a numeric cell value. All numerics are float64.
type Number float64

func (Number) cellValue() {}

// Null is an explicit null cell value.
type Null struct{}

func (Null) cellValue() {}

// Row is a single sheet row, column name to cell value.
type Row map[string]Value

// ValueOf normalizes a decoded request scalar into a Value. Strings stay
// text, all numeric kinds become Number, booleans become Number(1|0), nil and
// non-scalar shapes become Null.
func ValueOf(v interface{}) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case string:
		return Text(val)
	case bool:
		if val {
			return Number(1)
		}
		return Number(0)
	case int:
		return Number(val)
	case int8:
		return Number(val)
	case int16:
		return Number(val)
	case int32:
		return Number(val)
	case int64:
		return Number(val)
	case uint:
		return Number(val)
	case uint8:
		return Number(val)
	case uint16:
		return Number(val)
	case uint32:
		return Number(val)
	case uint64:
		return Number(val)
	case float32:
		return Number(val)
	case float64:
		return Number(val)
	default:
		return Null{}
	}
}

// IsNull reports whether v is null, either explicitly or as a nil interface.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// CoerceNumber is the single numeric coercion used by filter comparison and
// aggregation. Numbers pass through; text parses after trimming surrounding
// whitespace; null never coerces.
func CoerceNumber(v Value) (float64, bool) {
	switch val := v.(type) {
	case Number:
		return float64(val), true
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ValuesEqual implements raw equality across cell values: null equals null,
// text compares exactly, numbers compare as float64. Mismatched kinds are
// never equal, so Text("5") does not match Number(5).
func ValuesEqual(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	default:
		return false
	}
}

// FormatValue renders a cell value for preview output. Null renders empty,
// text renders verbatim, and numbers render locale-independently: integral
// finite values print without a decimal point, everything else prints with at
// most six fractional digits, trailing zeros stripped.
func FormatValue(v Value) string {
	switch val := v.(type) {
	case Text:
		return string(val)
	case Number:
		f := float64(val)
		if !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		s := strconv.FormatFloat(f, 'f', 6, 64)
		s = strings.TrimRight(s, "0")
		return strings.TrimRight(s, ".")
	default:
		return ""
	}
}
